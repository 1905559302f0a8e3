package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func frame(delta string) string {
	return `data: {"choices":[{"delta":{"content":"` + delta + `"}}]}` + "\n\n"
}

func TestAssemblePublishesGrowingPartials(t *testing.T) {
	body := frame("Hel") + frame("lo") + "data: [DONE]\n"

	var partials []string
	final := Assemble(strings.NewReader(body), func(p string) {
		partials = append(partials, p)
	})

	assert.Equal(t, []string{"Hel", "Hello"}, partials)
	assert.Equal(t, "Hello", final)
}

func TestAssembleSkipsMalformedFrames(t *testing.T) {
	body := frame("Hel") +
		"data: {not json\n" +
		": heartbeat comment\n" +
		frame("lo") +
		"data: [DONE]\n"

	final := Assemble(strings.NewReader(body), nil)
	assert.Equal(t, "Hello", final)
}

func TestAssembleIgnoresNonDataLines(t *testing.T) {
	body := "event: message\nid: 42\n" + frame("ok") + "data: [DONE]\n"
	assert.Equal(t, "ok", Assemble(strings.NewReader(body), nil))
}

func TestAssembleFinalizesWithoutDoneSentinel(t *testing.T) {
	// Connection dropped mid-stream: what was accumulated stands.
	body := frame("par") + frame("tial")
	assert.Equal(t, "partial", Assemble(strings.NewReader(body), nil))
}

func TestAssembleStopsAtDone(t *testing.T) {
	body := frame("before") + "data: [DONE]\n" + frame("after")
	assert.Equal(t, "before", Assemble(strings.NewReader(body), nil))
}

func TestAssembleEmptyStream(t *testing.T) {
	var partials []string
	final := Assemble(strings.NewReader(""), func(p string) {
		partials = append(partials, p)
	})
	assert.Empty(t, partials)
	assert.Equal(t, "", final)
}

func TestAssembleMissingDeltaContent(t *testing.T) {
	// Role-only first frame carries no content; the partial is still
	// republished so the caller sees every frame.
	body := `data: {"choices":[{"delta":{"role":"assistant"}}]}` + "\n" +
		frame("hi") + "data: [DONE]\n"

	var partials []string
	final := Assemble(strings.NewReader(body), func(p string) {
		partials = append(partials, p)
	})
	assert.Equal(t, []string{"", "hi"}, partials)
	assert.Equal(t, "hi", final)
}
