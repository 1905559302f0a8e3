// Package stream decodes the line-framed response of a streaming
// chat-completions request into a growing answer.
package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"
)

// maxFrameSize bounds a single frame; some providers batch large deltas.
const maxFrameSize = 1 << 20

// chunk is the subset of a completion frame the assembler cares about.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Assemble reads framed events from r until the [DONE] sentinel or end of
// stream, concatenating the text deltas in arrival order. publish, when
// non-nil, receives the accumulated text after every decoded frame.
//
// Only lines starting with the "data:" prefix are significant. Malformed
// frames are skipped rather than aborting the stream; providers emit
// heartbeats and occasionally partial frames. A stream that ends without
// [DONE] finalizes with whatever was accumulated.
func Assemble(r io.Reader, publish func(partial string)) string {
	var acc strings.Builder

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
		if payload == doneSentinel {
			break
		}

		var c chunk
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			continue
		}
		if len(c.Choices) > 0 {
			acc.WriteString(c.Choices[0].Delta.Content)
		}
		if publish != nil {
			publish(acc.String())
		}
	}

	return acc.String()
}
