package main

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/vitrine/surface"
)

// initResponse is what vitrineInit hands back to the page before the method
// table is attached.
type initResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// bridge owns one Handle and answers the page's calls as JSON strings.
type bridge struct {
	handle *surface.Handle
}

// newBridge parses the loader configuration and opens the blob. The returned
// response is always set; the bridge is nil when it is not OK.
func newBridge(configJSON string, blob []byte, opts ...surface.Option) (*bridge, initResponse) {
	var cfg surface.HostConfig
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return nil, initResponse{Reason: fmt.Sprintf("invalid config: %v", err)}
	}
	handle, err := surface.Init(cfg, blob, opts...)
	if err != nil {
		return nil, initResponse{Reason: err.Error()}
	}
	return &bridge{handle: handle}, initResponse{OK: true}
}

func (b *bridge) all() string {
	return toJSON(b.handle.Engine().All())
}

func (b *bridge) search(query string) string {
	return toJSON(b.handle.Engine().Search(query))
}

func (b *bridge) render(query string) string {
	return toJSON(b.handle.Render(query))
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(data)
}
