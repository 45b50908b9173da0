package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/convopanel/pkg/api"
	"github.com/go-go-golems/convopanel/pkg/conversation"
	"github.com/go-go-golems/convopanel/pkg/dom"
)

// LineRunner drives a panel from line-oriented input, for pipes and scripts.
// Every line is typed into the input and submitted; transcript nodes are
// printed as they are appended.
type LineRunner struct {
	panel     *conversation.Panel
	transport *api.Api
	loop      *api.Loop
	out       io.Writer
	printed   int
}

// NewLineRunner expects transport to deliver its callbacks on loop.
func NewLineRunner(panel *conversation.Panel, transport *api.Api, loop *api.Loop, out io.Writer) *LineRunner {
	return &LineRunner{panel: panel, transport: transport, loop: loop, out: out}
}

// Scheduler wraps loop so that new transcript nodes are printed after each
// delivered callback.
func Scheduler(loop *api.Loop, after func()) api.Scheduler {
	return api.SchedulerFunc(func(fn func()) {
		loop.Post(func() {
			fn()
			after()
		})
	})
}

// Flush prints the nodes appended since the last call.
func (r *LineRunner) Flush() {
	nodes := r.panel.View().Nodes()
	for _, n := range nodes[r.printed:] {
		_, _ = fmt.Fprintln(r.out, RenderNode(n, 0))
	}
	r.printed = len(nodes)
}

// Run initializes the panel and submits each line of in. It returns once in is
// exhausted and all replies have been printed, or when ctx is done.
func (r *LineRunner) Run(ctx context.Context, in io.Reader) error {
	initialized := make(chan struct{})
	r.loop.Post(func() {
		defer close(initialized)
		if err := r.panel.Init(ctx); err != nil {
			log.Error().Err(err).Msg("panel init failed")
		}
		r.Flush()
	})

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-initialized:
		}
		// let the opening exchange finish before the first line is sent
		r.transport.Wait()

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := scanner.Text()
			done := make(chan struct{})
			r.loop.Post(func() {
				defer close(done)
				r.submit(ctx, line)
			})
			select {
			case <-ctx.Done():
				return
			case <-done:
			}
			r.transport.Wait()
		}
		if err := scanner.Err(); err != nil {
			log.Error().Err(err).Msg("reading input failed")
		}
		r.loop.Post(r.loop.Close)
	}()

	return r.loop.Run(ctx)
}

func (r *LineRunner) submit(ctx context.Context, line string) {
	input := r.panel.Input()
	input.Value = line
	dom.FireEvent(input, dom.EventInput)
	ev := &dom.Event{Type: "keydown", Target: input, KeyCode: conversation.KeyEnter, Key: "enter"}
	if err := r.panel.InputKeyDown(ctx, ev, input); err != nil {
		log.Error().Err(err).Msg("could not send message")
	}
	r.Flush()
}
