package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragconsole/internal/domain"
)

func TestInitialState(t *testing.T) {
	s := NewSession()

	assert.True(t, s.Enabled(StageUpload))
	assert.False(t, s.Enabled(StageConfigure))
	assert.False(t, s.Enabled(StageInitialize))
	assert.False(t, s.Enabled(StageChat))
	assert.Empty(t, s.Transcript())
}

func TestLinearProgression(t *testing.T) {
	tests := []struct {
		name     string
		complete []Stage
		enabled  []Stage
		locked   []Stage
	}{
		{
			name:     "upload done unlocks configure only",
			complete: []Stage{StageUpload},
			enabled:  []Stage{StageUpload, StageConfigure},
			locked:   []Stage{StageInitialize, StageChat},
		},
		{
			name:     "configure done unlocks initialize only",
			complete: []Stage{StageUpload, StageConfigure},
			enabled:  []Stage{StageUpload, StageConfigure, StageInitialize},
			locked:   []Stage{StageChat},
		},
		{
			name:     "initialize done unlocks chat",
			complete: []Stage{StageUpload, StageConfigure, StageInitialize},
			enabled:  []Stage{StageUpload, StageConfigure, StageInitialize, StageChat},
			locked:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			for _, st := range tt.complete {
				require.NoError(t, s.Complete(st))
			}
			for _, st := range tt.enabled {
				assert.True(t, s.Enabled(st), "stage %s should be enabled", st)
			}
			for _, st := range tt.locked {
				assert.False(t, s.Enabled(st), "stage %s should be locked", st)
			}
		})
	}
}

func TestCompleteLockedStage(t *testing.T) {
	s := NewSession()

	err := s.Complete(StageConfigure)
	require.Error(t, err)
	assert.False(t, s.Completed(StageConfigure))
	// The failed attempt must not unlock anything either.
	assert.False(t, s.Enabled(StageInitialize))
}

func TestConfigureUnlockedOnlyAfterUploadSuccess(t *testing.T) {
	s := NewSession()

	// A failed upload records nothing.
	assert.False(t, s.Enabled(StageConfigure))

	require.NoError(t, s.Complete(StageUpload))
	assert.True(t, s.Enabled(StageConfigure))
}

func TestReset(t *testing.T) {
	s := NewSession()
	s.SetOptions(domain.AvailableOptions{Embedders: []string{"all-MiniLM-L6-v2"}})
	for _, st := range Stages() {
		require.NoError(t, s.Complete(st))
	}
	s.SetConfig(domain.PipelineConfig{Provider: "openai", Model: "gpt-4"})
	s.Append(domain.ChatTurn{Role: domain.RoleUser, Text: "hello"})
	s.Append(domain.ChatTurn{Role: domain.RoleBot, Text: "hi"})

	s.Reset()

	assert.True(t, s.Enabled(StageUpload))
	for _, st := range []Stage{StageConfigure, StageInitialize, StageChat} {
		assert.False(t, s.Enabled(st), "stage %s should be locked after reset", st)
	}
	assert.Empty(t, s.Transcript())
	assert.Zero(t, s.Config())
	// Options are load-time data and survive a reset.
	assert.Equal(t, []string{"all-MiniLM-L6-v2"}, s.Options().Embedders)
}

func TestClearChatKeepsStageState(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Complete(StageUpload))
	require.NoError(t, s.Complete(StageConfigure))
	s.Append(domain.ChatTurn{Role: domain.RoleUser, Text: "q"})

	s.ClearChat()

	assert.Empty(t, s.Transcript())
	assert.True(t, s.Enabled(StageConfigure))
	assert.True(t, s.Enabled(StageInitialize))
	assert.True(t, s.Completed(StageUpload))
}

func TestTranscriptIsAppendOnly(t *testing.T) {
	s := NewSession()
	s.Append(domain.ChatTurn{Role: domain.RoleUser, Text: "first"})
	s.Append(domain.ChatTurn{Role: domain.RoleBot, Text: "second"})

	turns := s.Transcript()
	require.Len(t, turns, 2)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, "first", turns[0].Text)
	assert.Equal(t, domain.RoleBot, turns[1].Role)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "upload", StageUpload.String())
	assert.Equal(t, "configure", StageConfigure.String())
	assert.Equal(t, "initialize", StageInitialize.String())
	assert.Equal(t, "chat", StageChat.String())
}
