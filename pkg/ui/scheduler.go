package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// callbackMsg carries a function to run inside Update.
type callbackMsg struct {
	fn func()
}

// ProgramScheduler delivers transport callbacks into the bubbletea event loop.
type ProgramScheduler struct {
	mu      sync.Mutex
	program *tea.Program
}

func (s *ProgramScheduler) SetProgram(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

func (s *ProgramScheduler) Post(fn func()) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p == nil {
		log.Warn().Msg("dropping callback posted before the program started")
		return
	}
	p.Send(callbackMsg{fn: fn})
}
