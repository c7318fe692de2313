package stream

// Stream is a live market-data subscription. Implementations own the
// underlying connection and its reconnect behavior.
type Stream interface {
	// Connect dials the stream and starts delivering raw messages to cb.
	// doneC closes when the stream terminates; closing stopC shuts it down.
	Connect(cb func(msg []byte)) (doneC chan struct{}, stopC chan struct{}, err error)
	Close()
	IsClosed() bool
}
