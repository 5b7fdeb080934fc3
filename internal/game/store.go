package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/verte-zerg/movwise/internal/feedback"
	"github.com/verte-zerg/movwise/internal/model"
)

// Feedback receives symbolic effect keys.
type Feedback interface {
	Trigger(key string) bool
}

// PromptSource supplies the next question for a difficulty.
type PromptSource interface {
	Next(d model.Difficulty) (model.Prompt, bool)
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for timestamps and reaction measurement.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithFeedback sets the effect sink.
func WithFeedback(f Feedback) Option {
	return func(s *Store) { s.feedback = f }
}

// WithPrompts sets the prompt source.
func WithPrompts(p PromptSource) Option {
	return func(s *Store) { s.prompts = p }
}

// WithStorage sets where the profile is persisted.
func WithStorage(st Storage) Option {
	return func(s *Store) { s.storage = st }
}

// WithRules replaces the per-difficulty rules.
func WithRules(fn func(model.Difficulty) Rules) Option {
	return func(s *Store) { s.rules = fn }
}

// WithIDs sets the history entry id generator.
func WithIDs(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Statistics is a consistent snapshot of the store.
type Statistics struct {
	Session      Session
	Profile      Profile
	AverageScore float64
	LastError    *GameError
}

// Store owns the round state machine and the player profile. All methods are safe for
// concurrent use; effects and events are delivered after the state lock is released.
type Store struct {
	clock    clockwork.Clock
	logger   *slog.Logger
	feedback Feedback
	prompts  PromptSource
	storage  Storage
	rules    func(model.Difficulty) Rules
	newID    func() string

	mu      sync.Mutex
	session Session
	profile Profile
	lastErr *GameError
	// loadErr is set while the stored profile could not be read. Saves are refused.
	loadErr error

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(Event)
}

// New returns a Store in the waiting phase with an empty profile.
func New(opts ...Option) *Store {
	s := &Store{
		clock:   clockwork.NewRealClock(),
		logger:  slog.Default(),
		storage: nopStorage{},
		rules:   RulesFor,
		newID:   uuid.NewString,
		profile: NewProfile(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.session = s.freshSession(s.profile.Preferences.Difficulty)
	return s
}

// tx is the working copy of one action. It is committed only if the action succeeds.
type tx struct {
	session Session
	profile Profile
	effects []string
	events  []Event
	errors  []Event
	save    bool
}

func (t *tx) emit(ev Event) {
	t.events = append(t.events, ev)
}

func (t *tx) effect(key string) {
	t.effects = append(t.effects, key)
}

func (t *tx) enter(p Phase) {
	t.session.Phase = p
	t.emit(Event{Kind: EventPhaseChanged, Phase: p})
}

func (s *Store) act(action string, fn func(t *tx) bool) bool {
	s.mu.Lock()
	t := &tx{session: s.session, profile: s.profile.Clone()}
	ok := s.guard(t, action, func() bool { return fn(t) })
	if ok {
		s.session = t.session
		s.profile = t.profile
	} else {
		t.effects, t.events, t.save = nil, nil, false
	}
	snapshot := s.profile.Clone()
	s.mu.Unlock()

	if t.save {
		// Failures are recorded as the last error.
		_ = s.save(context.Background(), action, snapshot)
	}
	for _, key := range t.effects {
		s.trigger(key)
	}
	for _, ev := range t.events {
		s.dispatch(ev)
	}
	for _, ev := range t.errors {
		s.dispatch(ev)
	}
	return ok
}

// guard runs fn and converts a panic into a recorded GameError. Callers hold s.mu.
func (s *Store) guard(t *tx, action string, fn func() bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ge := s.recordLocked(action, fmt.Sprint(r))
			t.errors = append(t.errors, Event{Kind: EventError, Err: ge})
			ok = false
		}
	}()
	return fn()
}

func (s *Store) recordLocked(action, msg string) *GameError {
	ge := &GameError{Message: msg, Context: action, Time: s.clock.Now()}
	s.lastErr = ge
	s.logger.Error("game action failed", "action", action, "err", msg)
	return ge
}

func (s *Store) record(action string, err error) *GameError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked(action, err.Error())
}

func (s *Store) ignore(action string, phase Phase) bool {
	s.logger.Warn("action ignored", "action", action, "phase", phase.String())
	return false
}

func (s *Store) freshSession(d model.Difficulty) Session {
	if !d.Valid() {
		d = model.DifficultyNormal
	}
	return newSession(d, s.rules(d))
}

// StartGame resets the session and enters the countdown. It is valid from waiting and finished.
func (s *Store) StartGame() bool {
	return s.act("startGame", func(t *tx) bool {
		if t.session.Phase != PhaseWaiting && t.session.Phase != PhaseFinished {
			return s.ignore("startGame", t.session.Phase)
		}
		s.lastErr = nil
		t.session = s.freshSession(t.profile.Preferences.Difficulty)
		t.session.StartedAt = s.clock.Now()
		t.enter(PhaseCountdown)
		t.effect(feedback.EffectCountdown)
		return true
	})
}

// Tick advances the countdown or the round timer by elapsed. Ticks outside those phases
// are ignored, so a paused or finished round never loses time.
func (s *Store) Tick(elapsed time.Duration) bool {
	return s.act("tick", func(t *tx) bool {
		if elapsed <= 0 {
			return false
		}
		switch t.session.Phase {
		case PhaseCountdown:
			before := t.session.Countdown
			t.session.Countdown -= elapsed
			if t.session.Countdown <= 0 {
				t.session.Countdown = 0
				t.enter(PhasePlaying)
				s.drawPrompt(t)
				return true
			}
			if wholeSeconds(before) != wholeSeconds(t.session.Countdown) {
				t.effect(feedback.EffectCountdown)
			}
			return true
		case PhasePlaying:
			before := t.session.TimeRemaining
			t.session.TimeRemaining -= elapsed
			if t.session.TimeRemaining <= 0 {
				t.session.TimeRemaining = 0
				s.finish(t)
				return true
			}
			if !t.session.warned && before > WarningThreshold && t.session.TimeRemaining <= WarningThreshold {
				t.session.warned = true
				t.effect(feedback.EffectTimeWarning)
				t.emit(Event{Kind: EventTimeWarning, Phase: PhasePlaying})
			}
			return true
		default:
			return false
		}
	})
}

func wholeSeconds(d time.Duration) int64 {
	return int64((d + time.Second - 1) / time.Second)
}

// TogglePause switches between playing and paused.
func (s *Store) TogglePause() bool {
	return s.act("togglePause", func(t *tx) bool {
		now := s.clock.Now()
		switch t.session.Phase {
		case PhasePlaying:
			t.session.pausedAt = now
			t.enter(PhasePaused)
		case PhasePaused:
			if !t.session.pausedAt.IsZero() {
				t.session.PromptShownAt = t.session.PromptShownAt.Add(now.Sub(t.session.pausedAt))
				t.session.pausedAt = time.Time{}
			}
			t.enter(PhasePlaying)
		default:
			return s.ignore("togglePause", t.session.Phase)
		}
		t.effect(feedback.EffectClick)
		return true
	})
}

// NextPrompt draws a new prompt while playing with no prompt active.
func (s *Store) NextPrompt() bool {
	return s.act("nextPrompt", func(t *tx) bool {
		if t.session.Phase != PhasePlaying || t.session.Prompt != nil {
			return false
		}
		return s.drawPrompt(t)
	})
}

// SetPrompt presents p as the active prompt while playing.
func (s *Store) SetPrompt(p model.Prompt) bool {
	return s.act("setPrompt", func(t *tx) bool {
		if t.session.Phase != PhasePlaying || len(p.Choices) == 0 {
			return false
		}
		s.present(t, p)
		return true
	})
}

func (s *Store) drawPrompt(t *tx) bool {
	if s.prompts == nil {
		return false
	}
	p, ok := s.prompts.Next(t.session.Difficulty)
	if !ok {
		s.logger.Warn("prompt source exhausted", "difficulty", string(t.session.Difficulty))
		return false
	}
	s.present(t, p)
	return true
}

func (s *Store) present(t *tx, p model.Prompt) {
	p.Choices = append([]string(nil), p.Choices...)
	t.session.Prompt = &p
	t.session.PromptShownAt = s.clock.Now()
	t.emit(Event{Kind: EventPromptChanged, Phase: t.session.Phase})
}

// SubmitAnswer scores choice against the active prompt. It fails without side effects
// unless a round is playing and a prompt is active.
func (s *Store) SubmitAnswer(choice int, reaction time.Duration) bool {
	return s.act("submitAnswer", func(t *tx) bool {
		sess := &t.session
		if sess.Phase != PhasePlaying || sess.Prompt == nil {
			return false
		}
		reaction = ClampReaction(reaction)
		sess.ReactionTotal += reaction
		prompt := *sess.Prompt
		ev := Event{Kind: EventAnswered, Phase: PhasePlaying}
		if prompt.Correct(choice) {
			sess.Combo++
			if sess.Combo > sess.MaxCombo {
				sess.MaxCombo = sess.Combo
			}
			sess.Correct++
			points := Points(prompt.Difficulty, reaction, sess.Combo)
			sess.Score += points
			sess.Prompt = nil
			ev.Correct, ev.Points = true, points
			t.effect(feedback.EffectCorrect)
			if sess.Combo%comboStep == 0 {
				t.effect(feedback.EffectCombo)
			}
			if sess.Correct%10 == 0 {
				sess.Level++
				t.effect(feedback.EffectLevelUp)
			}
		} else {
			sess.Combo = 0
			sess.Incorrect++
			if sess.Lives > 0 {
				sess.Lives--
			}
			t.effect(feedback.EffectIncorrect)
		}
		t.emit(ev)
		if sess.Lives == 0 || sess.TimeRemaining <= 0 {
			s.finish(t)
		}
		return true
	})
}

// EndGame finishes an active round, folding it into the profile and saving.
func (s *Store) EndGame() bool {
	return s.act("endGame", func(t *tx) bool {
		if !t.session.Phase.active() {
			return s.ignore("endGame", t.session.Phase)
		}
		s.finish(t)
		return true
	})
}

func (s *Store) finish(t *tx) {
	sess := t.session
	sess.Prompt = nil
	best := t.profile.BestScore
	t.profile.fold(sess, summarize(sess, s.newID(), s.clock.Now()))

	var unlocked []string
	s.guard(t, "checkAchievements", func() bool {
		unlocked = evaluate(t.profile, sess)
		t.profile.Achievements = append(t.profile.Achievements, unlocked...)
		return true
	})

	t.session = sess
	t.enter(PhaseFinished)
	t.save = true
	if sess.Score > best {
		t.effect(feedback.EffectVictory)
	} else {
		t.effect(feedback.EffectGameOver)
	}
	for _, id := range unlocked {
		t.effect(feedback.EffectAchievement)
		t.emit(Event{Kind: EventAchievementUnlocked, Phase: PhaseFinished, Achievement: id})
	}
}

// ForceStop abandons an active round without recording it.
func (s *Store) ForceStop() bool {
	return s.act("forceStop", func(t *tx) bool {
		if !t.session.Phase.active() {
			return s.ignore("forceStop", t.session.Phase)
		}
		t.session = s.freshSession(t.profile.Preferences.Difficulty)
		t.enter(PhaseWaiting)
		return true
	})
}

// Dismiss leaves the results screen.
func (s *Store) Dismiss() bool {
	return s.act("dismiss", func(t *tx) bool {
		if t.session.Phase != PhaseFinished {
			return false
		}
		t.session = s.freshSession(t.profile.Preferences.Difficulty)
		t.enter(PhaseWaiting)
		return true
	})
}

// SetPreferences stores new preferences. The difficulty applies from the next round.
func (s *Store) SetPreferences(p Preferences) bool {
	return s.act("setPreferences", func(t *tx) bool {
		if !p.Difficulty.Valid() {
			s.logger.Warn("invalid preferences", "difficulty", string(p.Difficulty))
			return false
		}
		t.profile.Preferences = p
		if t.session.Phase == PhaseWaiting {
			t.session = s.freshSession(p.Difficulty)
		}
		t.save = true
		t.emit(Event{Kind: EventPreferencesChanged, Phase: t.session.Phase, Preferences: p})
		return true
	})
}

// GetStatistics returns a snapshot of the session and profile.
func (s *Store) GetStatistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := Statistics{
		Session:      s.session,
		Profile:      s.profile.Clone(),
		AverageScore: s.profile.AverageScore(),
	}
	if s.lastErr != nil {
		ge := *s.lastErr
		stats.LastError = &ge
	}
	return stats
}

// Session returns the current round state.
func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// LastError returns the most recent recorded failure, or nil.
func (s *Store) LastError() *GameError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return nil
	}
	ge := *s.lastErr
	return &ge
}

// SaveProgress persists the profile.
func (s *Store) SaveProgress(ctx context.Context) error {
	s.mu.Lock()
	snapshot := s.profile.Clone()
	s.mu.Unlock()
	return s.save(ctx, "saveProgress", snapshot)
}

// LoadProgress replaces the profile with the stored one, merging over defaults.
// A missing or corrupt document leaves the defaults in place. A storage read
// failure keeps the defaults too but blocks every save until a later load succeeds.
func (s *Store) LoadProgress(ctx context.Context) error {
	raw, found, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		err = fmt.Errorf("failed to load progress: %w", err)
		s.mu.Lock()
		s.loadErr = err
		s.mu.Unlock()
		ge := s.record("loadProgress", err)
		s.dispatch(Event{Kind: EventError, Err: ge})
		return err
	}
	profile := NewProfile()
	if found {
		merged, derr := decodeProfile(raw)
		if derr != nil {
			s.logger.Warn("stored progress unreadable, using defaults", "err", derr)
		}
		profile = merged
	}

	s.mu.Lock()
	s.loadErr = nil
	s.profile = profile
	if s.session.Phase == PhaseWaiting {
		s.session = s.freshSession(profile.Preferences.Difficulty)
	}
	s.mu.Unlock()
	s.dispatch(Event{Kind: EventPreferencesChanged, Preferences: profile.Preferences})
	return nil
}

// ResetProgress clears statistics, achievements and history, keeps preferences and saves.
func (s *Store) ResetProgress(ctx context.Context) error {
	if err := s.saveBlocked(); err != nil {
		ge := s.record("resetProgress", err)
		s.dispatch(Event{Kind: EventError, Err: ge})
		return err
	}
	s.mu.Lock()
	prefs := s.profile.Preferences
	s.profile = NewProfile()
	s.profile.Preferences = prefs
	snapshot := s.profile.Clone()
	s.mu.Unlock()
	return s.save(ctx, "resetProgress", snapshot)
}

func (s *Store) save(ctx context.Context, action string, p Profile) error {
	if err := s.persist(ctx, p); err != nil {
		ge := s.record(action, err)
		s.dispatch(Event{Kind: EventError, Err: ge})
		return err
	}
	s.dispatch(Event{Kind: EventProgressSaved})
	return nil
}

func (s *Store) saveBlocked() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return fmt.Errorf("failed to save progress: %w (%v)", ErrProgressNotLoaded, s.loadErr)
	}
	return nil
}

func (s *Store) persist(ctx context.Context, p Profile) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to save progress: %v", r)
		}
	}()
	if err := s.saveBlocked(); err != nil {
		return err
	}
	data, err := encodeProfile(p, s.clock.Now())
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func (s *Store) trigger(key string) {
	if s.feedback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("feedback failed", "effect", key, "panic", r)
		}
	}()
	s.feedback.Trigger(key)
}

// Subscribe registers fn for every committed change. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) dispatch(ev Event) {
	s.subMu.Lock()
	subs := append([]subscriber(nil), s.subs...)
	s.subMu.Unlock()
	for _, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Warn("subscriber failed", "event", ev.Kind.String(), "panic", r)
				}
			}()
			sub.fn(ev)
		}()
	}
}
