package main

import "github.com/rawbytedev/aglio/typedesc"

// message is the demo record the pack/unpack subcommands exercise end to
// end: a sequence number and an arbitrary byte payload.
type message struct {
	Seq     int32
	Payload []byte
}

func init() {
	typedesc.Register[message](nil, []typedesc.Member{
		{Name: "seq", Access: typedesc.FieldByIndex(0)},
		{Name: "payload", Access: typedesc.FieldByIndex(1)},
	})
}
