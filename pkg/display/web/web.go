//go:build !test

// Package web provides a display driver streaming the emulator to
// websocket clients.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/brotli/go/cbrotli"
	"github.com/pcasaretto/gameboy/internal/joypad"
	"github.com/pcasaretto/gameboy/pkg/display"
	"github.com/pcasaretto/gameboy/pkg/display/event"
	"github.com/pcasaretto/gameboy/pkg/log"
)

func init() {
	driver := &webDriver{}
	display.Install("web", driver, []display.DriverOption{
		{
			Name:        "address",
			Default:     ":8090",
			Value:       &driver.address,
			Type:        "string",
			Description: "The address to serve websocket clients on",
		},
		{
			Name:        "compression",
			Default:     true,
			Value:       &driver.compression,
			Type:        "bool",
			Description: "Compress frames with brotli",
		},
		{
			Name:        "compression-level",
			Default:     7,
			Value:       &driver.compressionLevel,
			Type:        "int",
			Description: "The brotli quality to compress frames at (0-11)",
		},
		{
			Name:        "log-level",
			Default:     "info",
			Value:       &driver.logLevel,
			Type:        "string",
			Description: "The level to log client activity at",
		},
	})
}

func brotliCompress(data []byte, quality int) ([]byte, error) {
	return cbrotli.Encode(data, cbrotli.WriterOptions{Quality: quality})
}

type webDriver struct {
	address          string
	compression      bool
	compressionLevel int
	logLevel         string

	emu    display.Emulator
	hub    *hub
	server *http.Server
}

func (w *webDriver) Initialize(emu display.Emulator) {
	w.emu = emu
}

// Start serves clients on the configured address, and blocks until
// the emulator quits.
func (w *webDriver) Start(frames <-chan []byte, events <-chan event.Event, pressed, released chan<- joypad.Button) error {
	logger, err := log.New(w.logLevel)
	if err != nil {
		return err
	}
	logger = log.WithComponent(logger, "web")

	enc := newEncoder(brotliCompress)
	if !w.compression {
		enc.set(Compression, 0)
	}
	enc.set(CompressionLevel, uint8(w.compressionLevel))

	w.hub = newHub(w.emu, enc, logger, pressed, released)
	w.server = &http.Server{Addr: w.address, Handler: w.hub}

	errs := make(chan error, 1)
	go func() {
		errs <- w.server.ListenAndServe()
	}()
	go w.hub.run()
	logger.Infof("serving on %s", w.address)

	for {
		select {
		case f := <-frames:
			messages, err := enc.encode(f)
			if err != nil {
				logger.Errorf("encoding frame: %v", err)
			}
			for _, m := range messages {
				w.hub.send(m)
			}
		case e := <-events:
			switch e.Type {
			case event.Title:
				w.hub.send(append([]byte{PlayerInfo, PlayerIdentify}, e.Data.(string)...))
			case event.Quit:
				return w.Stop()
			}
		case err := <-errs:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			w.hub.close()
			return err
		}
	}
}

// Stop disconnects every client and shuts down the server.
func (w *webDriver) Stop() error {
	if w.hub != nil {
		w.hub.close()
	}
	if w.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	return w.server.Shutdown(ctx)
}
