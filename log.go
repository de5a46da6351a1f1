package scloudplus

import "github.com/op/go-logging"

// log emits low-volume diagnostic events (key generation, implicit
// rejection) at debug level. The package never touches the global
// backend configuration; callers that want output call
// logging.SetBackend themselves, same as any other op/go-logging
// consumer.
var log = logging.MustGetLogger("scloudplus")
