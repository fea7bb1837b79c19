package game

import (
	"reflect"
	"testing"
	"time"

	"github.com/kagithamanoj/boggle/internal/board"
)

// roundBoards hands out alphaBoard on round 1 and a reversed board afterwards.
func roundBoards(calls *int) BoardSource {
	return func(round int) board.Board {
		*calls++
		if round == 1 {
			return alphaBoard
		}
		var b board.Board
		for i := range alphaBoard {
			b[i] = alphaBoard[board.Cells-1-i]
		}
		return b
	}
}

func newTestSession(t *testing.T, seconds int) (*Session, *int) {
	t.Helper()
	calls := 0
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewSession(NewValidator(dict("ABFE", "FEB", "PONMIEAB", "PONM")), Options{
		RoundSeconds: seconds,
		Boards:       roundBoards(&calls),
		Now:          func() time.Time { return now },
	})
	return s, &calls
}

// checkInvariants asserts board presence matches the phase and the countdown floor.
func checkInvariants(t *testing.T, s *Session) {
	t.Helper()
	_, hasBoard := s.Board()
	wantBoard := s.Phase() == PhaseActive || s.Phase() == PhaseFinished
	if hasBoard != wantBoard {
		t.Fatalf("phase %s with board present=%v", s.Phase(), hasBoard)
	}
	if s.TimeRemaining() < 0 {
		t.Fatalf("timeRemaining = %d", s.TimeRemaining())
	}
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(NewValidator(dict()), Options{})
	if s.Phase() != PhaseLobby || s.RoundSeconds() != DefaultRoundSeconds || len(s.Players()) != 0 {
		t.Fatalf("unexpected initial session: %+v", s.Snapshot())
	}
	checkInvariants(t, s)
}

func TestJoin(t *testing.T) {
	s, _ := newTestSession(t, 10)

	events := s.Join("c1", "ann")
	want := []Event{
		JoinAcked{ConnID: "c1"},
		LobbyChanged{Players: []Standing{{ID: "c1", Name: "ann"}}},
	}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("Join events = %#v", events)
	}

	s.Join("c2", "")
	p, ok := s.Player("c2")
	if !ok || p.Name != "Unknown" {
		t.Fatalf("empty name should become Unknown, got %+v", p)
	}
	checkInvariants(t, s)
}

func TestRejoinResetsRecordAndKeepsOrder(t *testing.T) {
	s, _ := newTestSession(t, 10)
	s.Join("c1", "ann")
	s.Join("c2", "bob")
	s.Start()
	s.Submit("c1", "abfe")

	s.Join("c1", "annie")
	p, _ := s.Player("c1")
	if p.Score != 0 || len(p.FoundWords) != 0 || p.Name != "annie" {
		t.Fatalf("rejoin should reset the record, got %+v", p)
	}
	if s.Players()[0].ID != "c1" {
		t.Fatalf("rejoin moved player out of join order")
	}
	if s.Phase() != PhaseActive {
		t.Fatalf("join changed phase to %s", s.Phase())
	}
}

func TestSubmitIgnoredOutsideActive(t *testing.T) {
	s, _ := newTestSession(t, 2)
	s.Join("c1", "ann")

	if ev := s.Submit("c1", "abfe"); ev != nil {
		t.Fatalf("lobby submit produced %v", ev)
	}

	s.Start()
	s.Tick()
	s.Tick()
	if s.Phase() != PhaseFinished {
		t.Fatalf("phase = %s, want FINISHED", s.Phase())
	}
	if ev := s.Submit("c1", "abfe"); ev != nil {
		t.Fatalf("finished submit produced %v", ev)
	}
	p, _ := s.Player("c1")
	if p.Score != 0 || len(p.FoundWords) != 0 {
		t.Fatalf("out-of-phase submit mutated player: %+v", p)
	}
}

func TestSubmitUnknownConnection(t *testing.T) {
	s, _ := newTestSession(t, 10)
	s.Start()
	if ev := s.Submit("ghost", "abfe"); ev != nil {
		t.Fatalf("unknown connection produced %v", ev)
	}
}

func TestStartOnlyFromLobby(t *testing.T) {
	s, calls := newTestSession(t, 30)
	s.Join("c1", "ann")

	events := s.Start()
	if len(events) != 1 {
		t.Fatalf("Start events = %v", events)
	}
	started, ok := events[0].(RoundStarted)
	if !ok || started.Duration != 30 || started.Round != 1 || started.Board != alphaBoard {
		t.Fatalf("RoundStarted = %+v", events[0])
	}
	if s.TimeRemaining() != 30 || s.Phase() != PhaseActive {
		t.Fatalf("after start: phase %s time %d", s.Phase(), s.TimeRemaining())
	}

	if ev := s.Start(); ev != nil {
		t.Fatalf("second Start produced %v", ev)
	}
	if *calls != 1 {
		t.Fatalf("board generated %d times, want 1", *calls)
	}
	checkInvariants(t, s)
}

func TestDuplicatesArePerPlayer(t *testing.T) {
	s, _ := newTestSession(t, 10)
	s.Join("c1", "ann")
	s.Join("c2", "bob")
	s.Start()

	kinds := func(events []Event) OutcomeKind {
		t.Helper()
		j, ok := events[0].(SubmissionJudged)
		if !ok {
			t.Fatalf("first event = %T", events[0])
		}
		return j.Outcome.Kind
	}

	first := s.Submit("c1", "abfe")
	if kinds(first) != OutcomeValid || len(first) != 2 {
		t.Fatalf("first submit = %+v", first)
	}
	found, ok := first[1].(WordFound)
	if !ok || found.Name != "ann" || found.Word != "ABFE" || found.Points != 1 {
		t.Fatalf("WordFound = %+v", first[1])
	}
	if got := kinds(s.Submit("c1", "ABFE")); got != OutcomeDuplicate {
		t.Fatalf("repeat = %s, want DUPLICATE", got)
	}
	if got := kinds(s.Submit("c2", "abfe")); got != OutcomeValid {
		t.Fatalf("other player = %s, want VALID", got)
	}
	if feed := s.Feed(); len(feed) != 2 || feed[0] != "bob found ABFE (+1)" {
		t.Fatalf("feed = %v", feed)
	}
}

func TestSubmissionJudgedAddressedToSubmitter(t *testing.T) {
	s, _ := newTestSession(t, 10)
	s.Join("c1", "ann")
	s.Start()

	events := s.Submit("c1", "xyz")
	if len(events) != 1 {
		t.Fatalf("rejected submit events = %v", events)
	}
	j := events[0].(SubmissionJudged)
	if j.ConnID != "c1" || j.Raw != "xyz" || j.Outcome.Kind != OutcomeNotInDictionary {
		t.Fatalf("SubmissionJudged = %+v", j)
	}
}

func TestTickReachesZeroExactlyOnce(t *testing.T) {
	s, _ := newTestSession(t, 3)
	s.Join("c1", "ann")
	s.Start()

	if ev := s.Tick(); ev != nil || s.TimeRemaining() != 2 {
		t.Fatalf("tick 1: %v, remaining %d", ev, s.TimeRemaining())
	}
	if ev := s.Tick(); ev != nil || s.TimeRemaining() != 1 {
		t.Fatalf("tick 2: %v, remaining %d", ev, s.TimeRemaining())
	}
	events := s.Tick()
	if len(events) != 1 {
		t.Fatalf("tick 3 events = %v", events)
	}
	ended, ok := events[0].(RoundEnded)
	if !ok || ended.Forced || ended.Round != 1 {
		t.Fatalf("RoundEnded = %+v", events[0])
	}
	for i := 0; i < 5; i++ {
		if ev := s.Tick(); ev != nil {
			t.Fatalf("tick after end produced %v", ev)
		}
	}
	if s.TimeRemaining() != 0 || s.Phase() != PhaseFinished {
		t.Fatalf("after expiry: phase %s time %d", s.Phase(), s.TimeRemaining())
	}
	checkInvariants(t, s)
}

func TestForcedEnd(t *testing.T) {
	s, _ := newTestSession(t, 60)
	if ev := s.End(); ev != nil {
		t.Fatalf("End in lobby produced %v", ev)
	}
	s.Start()
	events := s.End()
	if len(events) != 1 || !events[0].(RoundEnded).Forced {
		t.Fatalf("End events = %v", events)
	}
	if ev := s.End(); ev != nil {
		t.Fatalf("second End produced %v", ev)
	}
	if s.TimeRemaining() != 60 {
		t.Fatalf("forced end should not touch the countdown, got %d", s.TimeRemaining())
	}
}

func TestRankingStableOnTies(t *testing.T) {
	s, _ := newTestSession(t, 10)
	s.Join("c1", "ann")
	s.Join("c2", "bob")
	s.Join("c3", "cat")
	s.Start()
	s.Submit("c2", "abfe")     // 1
	s.Submit("c3", "feb")      // 1
	s.Submit("c3", "pONMIEAB") // +11

	events := s.End()
	got := events[0].(RoundEnded).Ranking
	want := []Standing{
		{ID: "c3", Name: "cat", Score: 12},
		{ID: "c2", Name: "bob", Score: 1},
		{ID: "c1", Name: "ann", Score: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranking = %+v, want %+v", got, want)
	}

	s2, _ := newTestSession(t, 10)
	s2.Join("x", "first")
	s2.Join("y", "second")
	s2.Join("z", "third")
	s2.Start()
	ranking := s2.End()[0].(RoundEnded).Ranking
	for i, id := range []string{"x", "y", "z"} {
		if ranking[i].ID != id {
			t.Fatalf("tied ranking = %+v, want join order", ranking)
		}
	}
}

func TestReturnToLobbyResets(t *testing.T) {
	s, calls := newTestSession(t, 10)
	s.Join("c1", "ann")
	s.Join("c2", "bob")

	if ev := s.ReturnToLobby(); ev != nil {
		t.Fatalf("ReturnToLobby from lobby produced %v", ev)
	}

	s.Start()
	s.Submit("c1", "abfe")
	if ev := s.ReturnToLobby(); ev != nil {
		t.Fatalf("ReturnToLobby while active produced %v", ev)
	}
	s.End()

	events := s.ReturnToLobby()
	if len(events) != 1 {
		t.Fatalf("ReturnToLobby events = %v", events)
	}
	if _, ok := events[0].(LobbyReset); !ok {
		t.Fatalf("event = %T, want LobbyReset", events[0])
	}
	if s.Phase() != PhaseLobby {
		t.Fatalf("phase = %s", s.Phase())
	}
	if len(s.Players()) != 2 {
		t.Fatalf("players should be retained, got %d", len(s.Players()))
	}
	for _, p := range s.Players() {
		if p.Score != 0 || len(p.FoundWords) != 0 {
			t.Fatalf("player not reset: %+v", p)
		}
	}
	if len(s.Feed()) != 0 {
		t.Fatalf("feed not cleared: %v", s.Feed())
	}
	checkInvariants(t, s)

	// A second lobby return is a no-op.
	if ev := s.ReturnToLobby(); ev != nil {
		t.Fatalf("repeat ReturnToLobby produced %v", ev)
	}

	// The next round draws a fresh board and old words score again.
	started := s.Start()[0].(RoundStarted)
	if started.Round != 2 || started.Board == alphaBoard || *calls != 2 {
		t.Fatalf("second round = %+v (calls %d)", started, *calls)
	}
	if got := s.Submit("c1", "PONM")[0].(SubmissionJudged).Outcome; !got.Valid() {
		t.Fatalf("submit on second board = %+v", got)
	}
}

func TestLeave(t *testing.T) {
	s, _ := newTestSession(t, 10)
	s.Join("c1", "ann")
	s.Join("c2", "bob")

	events := s.Leave("c1")
	want := []Event{LobbyChanged{Players: []Standing{{ID: "c2", Name: "bob"}}}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("Leave events = %#v", events)
	}
	if _, ok := s.Player("c1"); ok {
		t.Fatalf("player c1 still present")
	}
	if ev := s.Leave("c1"); ev != nil {
		t.Fatalf("second Leave produced %v", ev)
	}
}

func TestSnapshot(t *testing.T) {
	s, _ := newTestSession(t, 10)
	s.Join("c1", "ann")
	snap := s.Snapshot()
	if snap.Phase != PhaseLobby || snap.Board != nil || len(snap.Players) != 1 {
		t.Fatalf("lobby snapshot = %+v", snap)
	}

	s.Start()
	s.Submit("c1", "feb")
	snap = s.Snapshot()
	if snap.Phase != PhaseActive || len(snap.Board) != board.Size || snap.TimeRemaining != 10 {
		t.Fatalf("active snapshot = %+v", snap)
	}
	if !reflect.DeepEqual(snap.Players[0].Words, []string{"FEB"}) || snap.Players[0].Score != 1 {
		t.Fatalf("snapshot player = %+v", snap.Players[0])
	}
}
