package bnc

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/Zane-/cryptobot/pkg/types"
)

const hsTimeoutS = 10 // handshake timeout in seconds

// Binance drops connections after 24h; reconnect proactively before that.
const connAutoResetS = 3600

type BncStream struct {
	wsUrl  string
	dialer websocket.Dialer
	conn   *websocket.Conn

	resetC         chan struct{}
	doneC          chan struct{}
	stopC          chan struct{}
	isDisconnected bool // temporary; the stream may auto-reconnect
	isClosed       bool // permanent; the stream will not reconnect

	mu     sync.Mutex
	logger *log.Entry
}

func NewStream(ctx context.Context, streamName types.Stream, wsUrl string) (*BncStream, error) {
	if _, err := url.Parse(wsUrl); err != nil {
		return nil, err
	}
	return &BncStream{
		wsUrl: wsUrl,
		dialer: websocket.Dialer{
			HandshakeTimeout: hsTimeoutS * time.Second,
		},
		resetC: make(chan struct{}, 1),
		logger: log.WithFields(log.Fields{
			"stream": wsUrl,
			"name":   streamName,
		}),
	}, nil
}

func (sm *BncStream) Connect(cb func(msg []byte)) (doneC chan struct{}, stopC chan struct{}, err error) {
	if err := sm.connect(); err != nil {
		return nil, nil, err
	}
	sm.doneC = make(chan struct{})
	sm.stopC = make(chan struct{})
	go sm.readLoop(cb)
	go sm.autoReset()
	return sm.doneC, sm.stopC, nil
}

func (sm *BncStream) connect() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	c, _, err := sm.dialer.Dial(sm.wsUrl, nil)
	if err != nil {
		sm.logger.Errorf("fail to connect stream: %v", err)
		return err
	}
	sm.conn = c

	// Binance pings every few minutes; answer with a matching pong payload
	sm.conn.SetPingHandler(func(msg string) error {
		err := sm.conn.WriteControl(websocket.PongMessage, []byte(msg), time.Now().Add(hsTimeoutS*time.Second))
		if err != nil {
			sm.logger.Warnf("fail to send pong: %v", err)
		}
		return nil
	})
	return nil
}

func (sm *BncStream) readLoop(cb func(msg []byte)) {
	defer close(sm.doneC)
	for {
		select {
		case <-sm.stopC:
			sm.Close()
			return
		case <-sm.resetC:
			sm.handleReconnect()
		default:
			if sm.IsClosed() {
				return
			}
			_, msg, err := sm.conn.ReadMessage()
			if err != nil {
				sm.logger.Errorf("fail to read stream message (trying to reconnect): %v", err)
				sm.handleReconnect()
				continue
			}
			cb(msg)
		}
	}
}

func (sm *BncStream) handleReconnect() {
	sm.mu.Lock()
	sm.isDisconnected = true
	sm.mu.Unlock()

	for {
		if sm.IsClosed() {
			return
		}
		select {
		case <-sm.stopC:
			sm.Close()
			return
		default:
			time.Sleep(1 * time.Second)
			if err := sm.connect(); err != nil {
				sm.logger.Errorf("fail to reconnect stream (retrying...): %v", err)
				continue
			}
			sm.logger.Info("reconnect stream success")
			sm.mu.Lock()
			sm.isDisconnected = false
			sm.mu.Unlock()
			return
		}
	}
}

func (sm *BncStream) autoReset() {
	ticker := time.NewTicker(connAutoResetS * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if sm.IsClosed() {
				return
			}
			if sm.IsDisconnected() {
				continue
			}
			sm.logger.Infof("auto-reset triggered after %d seconds", connAutoResetS)
			sm.resetC <- struct{}{}
		case <-sm.stopC:
			return
		}
	}
}

func (sm *BncStream) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.isClosed {
		return
	}
	sm.isClosed = true
	if sm.conn != nil {
		sm.conn.Close()
	}
}

func (sm *BncStream) IsClosed() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.isClosed
}

func (sm *BncStream) IsDisconnected() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.isDisconnected
}
