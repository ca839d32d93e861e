package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Patricemapiye-ctrl/navira-forge/realtime"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// Events streams the realtime change feed over server-sent events.
type Events struct {
	Hub *realtime.Hub
}

// Stream subscribes the connection to the hub and writes each event as an
// SSE message. A keepalive comment goes out every 15 seconds so proxies
// don't reap the idle connection.
func (h *Events) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	events, cancel := h.Hub.Subscribe()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		keepalive := time.NewTicker(15 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				data, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepalive.C:
				fmt.Fprint(w, ": keepalive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
