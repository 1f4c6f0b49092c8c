package server

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/pdf-analyst/internal/session"
)

func TestMemoryStore_BusyVisibleDuringUpdate(t *testing.T) {
	s := NewMemoryStore(func() session.State { return session.State{Inputs: session.DefaultInputs()} })
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.Update("sid", session.ActionProcess, func(st session.State) session.State {
			close(started)
			<-release
			st.Inputs.Prompt = "updated"
			return st
		})
	}()

	<-started
	during := s.Get("sid")
	assert.Equal(t, session.ActionProcess, during.Busy)
	assert.Equal(t, "summarize clearly and objectively", during.Inputs.Prompt)

	close(release)
	<-done
	after := s.Get("sid")
	assert.Empty(t, after.Busy)
	assert.Equal(t, "updated", after.Inputs.Prompt)
}

func TestMemoryStore_SerializesUpdates(t *testing.T) {
	s := NewMemoryStore(func() session.State { return session.State{} })
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update("sid", session.ActionUpload, func(st session.State) session.State {
				st.Documents = append(st.Documents, session.Document{})
				return st
			})
		}()
	}
	wg.Wait()
	assert.Len(t, s.Get("sid").Documents, 50)
}

func TestMemoryStore_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(func() session.State { return session.State{} })
	s.now = func() time.Time { return now }

	s.Get("old")
	now = now.Add(2 * time.Hour)
	s.Get("fresh")

	assert.Equal(t, 1, s.Sweep(time.Hour))
	assert.Equal(t, 1, s.Len())
}
