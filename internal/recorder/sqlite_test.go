package recorder

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "kicks.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordAndListRounds(t *testing.T) {
	r := openTemp(t)

	for i, result := range []string{"goal", "save", "miss"} {
		err := r.RecordRound(&RoundEvent{
			LifecycleID:    "lc",
			SequenceNumber: uint64(40 + i),
			PlayerMove:     "LEFT",
			ResolvedMove:   "LEFT",
			OracleMove:     "RIGHT",
			WindStrength:   12,
			Result:         result,
		})
		if err != nil {
			t.Fatalf("record round: %v", err)
		}
	}

	rounds, err := r.RecentRounds(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("got %d rounds, want 2", len(rounds))
	}
	if rounds[0].SequenceNumber != 42 || rounds[0].Result != "miss" {
		t.Errorf("newest round = %+v", rounds[0])
	}
	if rounds[1].WindStrength != 12 || rounds[1].Timestamp.IsZero() {
		t.Errorf("fields not restored: %+v", rounds[1])
	}
}

func TestRecordKickAndStats(t *testing.T) {
	r := openTemp(t)

	if err := r.RecordKick(&KickEvent{LifecycleID: "lc", Move: "CENTER", FeeWei: "10000000000000000", Status: "SUBMITTED", TxHash: "0x01"}); err != nil {
		t.Fatalf("record kick: %v", err)
	}
	if err := r.RecordStats(&StatsEvent{CurrentStreak: 3, HighestStreak: 5, TotalPoints: 90, IsOnFire: true, Level: 3, Multiplier: 1}); err != nil {
		t.Fatalf("record stats: %v", err)
	}

	var kicks, stats int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM kicks WHERE status = 'SUBMITTED'`).Scan(&kicks); err != nil {
		t.Fatal(err)
	}
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM stats_history WHERE is_on_fire = 1`).Scan(&stats); err != nil {
		t.Fatal(err)
	}
	if kicks != 1 || stats != 1 {
		t.Errorf("kicks=%d stats=%d", kicks, stats)
	}
}
