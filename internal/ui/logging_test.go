package ui

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ teaProgramProvider = (*tea.Program)(nil)

// fakeProgram is a fake implementation of teaProgramProvider. It collects all
// messages sent via its Send method.
type fakeProgram struct {
	msgs chan tea.Msg
}

func newFakeProgram() *fakeProgram {
	return &fakeProgram{
		msgs: make(chan tea.Msg, 100),
	}
}

func (fp *fakeProgram) Send(msg tea.Msg) {
	fp.msgs <- msg
}

// TestTeaLogWriter_Write_Table verifies that calls to Write send the expected
// messages.
func TestTeaLogWriter_Write_Table(t *testing.T) {
	t.Parallel()

	fp := newFakeProgram()
	writer := NewTeaLogWriter(fp)
	defer writer.Stop()

	testCases := []struct {
		name  string
		input string
	}{
		{"Success_EmptyMessage", ""},
		{"Success_ShortMessage", "log"},
		{"Success_LongMessage", "this is a longer log message"},
		{"Success_UnicodeMessage", "this is a Japanese message - 日本!"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := writer.Write([]byte(tc.input))
			require.NoError(t, err)
			require.Equal(t, len(tc.input), n)

			select {
			case got := <-fp.msgs:
				assert.Equal(t, LogMsg(tc.input), got)
			case <-time.After(300 * time.Millisecond):
				t.Fatalf("timeout waiting for log message in case: %s", tc.name)
			}
		})
	}
}

// TestTeaLogWriter_Stop verifies that after Stop is called, subsequent Write
// calls do not send messages.
func TestTeaLogWriter_Stop(t *testing.T) {
	t.Parallel()

	fp := newFakeProgram()
	writer := NewTeaLogWriter(fp)

	_, _ = writer.Write([]byte("first message"))

	time.Sleep(50 * time.Millisecond)
	writer.Stop()
	time.Sleep(50 * time.Millisecond)

	_, _ = writer.Write([]byte("second message"))

	var msgs []string
drainLoop:
	for {
		select {
		case m := <-fp.msgs:
			if lm, ok := m.(LogMsg); ok {
				msgs = append(msgs, string(lm))
			}
		case <-time.After(300 * time.Millisecond):
			break drainLoop
		}
	}

	assert.Contains(t, msgs, "first message", "expected first message to be delivered")
	assert.NotContains(t, msgs, "second message", "expected second message not to be delivered")
}

// TestTeaLogWriter_Slog verifies that records of a [slog.Handler] writing into
// a [TeaLogWriter] arrive at the program as one [LogMsg] per record.
func TestTeaLogWriter_Slog(t *testing.T) {
	t.Parallel()

	fp := newFakeProgram()
	writer := NewTeaLogWriter(fp)
	defer writer.Stop()

	logger := slog.New(slog.NewTextHandler(writer, nil))
	logger.Info("Mounted file system", "volume", "v1")
	logger.Warn("Directory full", "path", "/a")

	for _, want := range []string{"Mounted file system", "Directory full"} {
		select {
		case got := <-fp.msgs:
			msg, ok := got.(LogMsg)
			require.True(t, ok, "expected a LogMsg, got %T", got)
			assert.Contains(t, string(msg), want)
			assert.Equal(t, byte('\n'), msg[len(msg)-1])
		case <-time.After(300 * time.Millisecond):
			t.Fatalf("timeout waiting for log message: %s", want)
		}
	}
}

// TestTeaModel_LogMsg verifies that the model keeps only the most recent
// [LogMsg] lines, in order of arrival.
func TestTeaModel_LogMsg(t *testing.T) {
	t.Parallel()

	var model tea.Model = NewTeaModel(newTestHandler(), func() {})

	total := maxLogLines + 5
	for i := range total {
		model, _ = model.Update(LogMsg(fmt.Sprintf("line %d\n", i)))
	}

	m, ok := model.(TeaModel)
	require.True(t, ok)

	require.Len(t, m.logs, maxLogLines)
	assert.Equal(t, fmt.Sprintf("line %d\n", total-maxLogLines), m.logs[0])
	assert.Equal(t, fmt.Sprintf("line %d\n", total-1), m.logs[maxLogLines-1])
}
