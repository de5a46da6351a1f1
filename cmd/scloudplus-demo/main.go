// Command scloudplus-demo exercises key generation, encapsulation and
// decapsulation at a chosen security level and reports whether the
// recovered shared secret matches.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"scloudplus"
)

func main() {
	app := cli.NewApp()
	app.Name = "scloudplus-demo"
	app.Usage = "round-trip a SCloud+ key encapsulation"
	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:  "bits",
			Value: 128,
			Usage: "security level: 128, 192 or 256",
		},
		&cli.BoolFlag{
			Name:  "tamper",
			Usage: "flip the first ciphertext byte before decapsulating",
		},
	}
	app.Action = func(c *cli.Context) error {
		return run(c.Int("bits"), c.Bool("tamper"))
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "scloudplus-demo:", err)
		os.Exit(1)
	}
}

func run(bits int, tamper bool) error {
	var ctx scloudplus.Context
	if err := ctx.SetKeyBits(bits); err != nil {
		return fmt.Errorf("set key bits: %w", err)
	}
	defer ctx.Free()

	if err := ctx.Generate(); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	c, ss1, err := ctx.Encapsulate()
	if err != nil {
		return fmt.Errorf("encapsulate: %w", err)
	}

	if tamper {
		c[0] ^= 0xFF
	}

	ss2, err := ctx.Decapsulate(c)
	if err != nil {
		return fmt.Errorf("decapsulate: %w", err)
	}

	fmt.Printf("level:      %d\n", bits)
	fmt.Printf("ciphertext: %d bytes\n", len(c))
	fmt.Printf("ss (encap): %s\n", hex.EncodeToString(ss1))
	fmt.Printf("ss (decap): %s\n", hex.EncodeToString(ss2))
	match := true
	for i := range ss1 {
		if ss1[i] != ss2[i] {
			match = false
			break
		}
	}
	fmt.Printf("match:      %v\n", match)
	return nil
}
