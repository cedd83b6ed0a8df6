package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stormlightlabs.org/draftassistant/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_RunsMigrations(t *testing.T) {
	s := openTestStore(t)

	var count int
	err := s.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordPick_InsertOrIgnore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	pick := core.DraftPick{PickNumber: 1, TeamID: "t1", PlayerName: "X", Price: 10}
	require.NoError(t, s.RecordPick(ctx, "d1", pick))
	require.NoError(t, s.RecordPick(ctx, "d1", pick))

	picks, err := s.LoadPicks(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, picks, 1)
}

func TestClearDraft_RemovesAllPicks(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.RecordPick(ctx, "d1", core.DraftPick{PickNumber: 1, PlayerName: "X"}))
	require.NoError(t, s.SetCurrentDraftID(ctx, "d1"))

	require.NoError(t, s.ClearDraft(ctx, "d1"))

	picks, err := s.LoadPicks(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, picks)

	id, err := s.CurrentDraftID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestImportPlayers_BatchTransaction(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	players := []ImportPlayer{
		{Projection: core.Projection{Name: "Alpha", Team: "BOS", Kind: core.KindHitter}},
		{Projection: core.Projection{Name: "Beta", Team: "NYY", Kind: core.KindPitcher, PitcherRole: core.PitcherRoleStarter}},
	}
	require.NoError(t, s.ImportPlayers(ctx, players))

	var count int
	require.NoError(t, s.QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestCurrentDraftID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.CurrentDraftID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, s.SetCurrentDraftID(ctx, "draft-123"))
	id, err = s.CurrentDraftID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "draft-123", id)
}

func TestGenerateDraftID_MatchesDocumentedFormat(t *testing.T) {
	id := GenerateDraftID()
	assert.Regexp(t, `^draft_\d{8}_\d{6}_\d{3}$`, id)
}
