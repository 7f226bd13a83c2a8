//go:build cucumber

package quiz

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/codeleap/internal/ai"
	"github.com/ashureev/codeleap/internal/domain"
	"github.com/cucumber/godog"
)

// TestSessionScenarios runs the session feature scenarios.
func TestSessionScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "session",
		ScenarioInitializer: InitializeSessionScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "session.feature")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeSessionScenario wires steps for session scenarios.
func InitializeSessionScenario(ctx *godog.ScenarioContext) {
	state := &sessionScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^the AI returns a valid challenge$`, state.givenValidAI)
	ctx.Step(`^the AI is rate limited$`, state.givenRateLimitedAI)
	ctx.Step(`^the AI never answers$`, state.givenSilentAI)
	ctx.Step(`^the AI rejects the key$`, state.givenRejectingAI)
	ctx.Step(`^I request a "([^"]+)" "([^"]+)" challenge$`, state.whenIRequest)
	ctx.Step(`^I answer "(true|false)"$`, state.whenIAnswer)
	ctx.Step(`^I answer (\d+) challenges$`, state.whenIAnswerMany)
	ctx.Step(`^the challenge origin is "([^"]+)"$`, state.thenOrigin)
	ctx.Step(`^the challenge language is "([^"]+)"$`, state.thenLanguage)
	ctx.Step(`^the session state is "([^"]+)"$`, state.thenState)
	ctx.Step(`^no notice is shown$`, state.thenNoNotice)
	ctx.Step(`^the notice is "([^"]+)"$`, state.thenNotice)
	ctx.Step(`^the request fails with "([^"]+)"$`, state.thenFails)
	ctx.Step(`^the second answer is rejected$`, state.thenSecondAnswerRejected)
	ctx.Step(`^the history has (\d+) entr(?:y|ies)$`, state.thenHistoryLen)
}

type sessionScenarioState struct {
	provider   *fakeProvider
	timeout    time.Duration
	session    *Session
	outcome    *Outcome
	err        error
	answerErrs []error
}

func (s *sessionScenarioState) reset() {
	*s = sessionScenarioState{provider: &fakeProvider{}, timeout: time.Second}
}

func (s *sessionScenarioState) ensureSession() *Session {
	if s.session == nil {
		s.session = newSession("cucumber", newTestGenerator(s.provider, s.timeout), newMemKV(), nil, nil)
	}
	return s.session
}

func (s *sessionScenarioState) givenValidAI() error { return nil }

func (s *sessionScenarioState) givenRateLimitedAI() error {
	s.provider.generate = func(context.Context, ai.Request) (string, error) {
		return "", ai.ErrRateLimited
	}
	return nil
}

func (s *sessionScenarioState) givenSilentAI() error {
	s.timeout = 20 * time.Millisecond
	s.provider.generate = func(ctx context.Context, _ ai.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return nil
}

func (s *sessionScenarioState) givenRejectingAI() error {
	s.provider.generate = func(context.Context, ai.Request) (string, error) {
		return "", ai.ErrInvalidKey
	}
	return nil
}

func (s *sessionScenarioState) whenIRequest(lang, diff string) error {
	s.outcome, s.err = s.ensureSession().Generate(context.Background(), "key", domain.Language(lang), domain.Difficulty(diff))
	return nil
}

func (s *sessionScenarioState) whenIAnswer(verdict string) error {
	if s.outcome == nil {
		return fmt.Errorf("no challenge to answer: %v", s.err)
	}
	_, err := s.session.Answer(context.Background(), s.outcome.Challenge.ID, verdict == "true")
	s.answerErrs = append(s.answerErrs, err)
	return nil
}

func (s *sessionScenarioState) whenIAnswerMany(n int) error {
	for i := 0; i < n; i++ {
		out, err := s.ensureSession().Generate(context.Background(), "key", domain.LanguageJavaScript, domain.DifficultyEasy)
		if err != nil {
			return err
		}
		if _, err := s.session.Answer(context.Background(), out.Challenge.ID, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *sessionScenarioState) thenOrigin(origin string) error {
	if s.err != nil {
		return s.err
	}
	if got := string(s.outcome.Challenge.Origin); got != origin {
		return fmt.Errorf("origin = %q, want %q", got, origin)
	}
	return nil
}

func (s *sessionScenarioState) thenLanguage(lang string) error {
	if got := string(s.outcome.Challenge.Language); got != lang {
		return fmt.Errorf("language = %q, want %q", got, lang)
	}
	return nil
}

func (s *sessionScenarioState) thenState(state string) error {
	if got := string(s.session.State()); got != state {
		return fmt.Errorf("state = %q, want %q", got, state)
	}
	return nil
}

func (s *sessionScenarioState) thenNoNotice() error {
	if s.outcome.Notice != NoticeNone {
		return fmt.Errorf("notice = %q", s.outcome.Notice)
	}
	return nil
}

func (s *sessionScenarioState) thenNotice(notice string) error {
	if string(s.outcome.Notice) != notice {
		return fmt.Errorf("notice = %q, want %q", s.outcome.Notice, notice)
	}
	return nil
}

func (s *sessionScenarioState) thenFails(msg string) error {
	if s.err == nil || !strings.Contains(s.err.Error(), msg) {
		return fmt.Errorf("error = %v, want %q", s.err, msg)
	}
	return nil
}

func (s *sessionScenarioState) thenSecondAnswerRejected() error {
	if len(s.answerErrs) != 2 {
		return fmt.Errorf("expected two answers, got %d", len(s.answerErrs))
	}
	if s.answerErrs[0] != nil {
		return fmt.Errorf("first answer failed: %w", s.answerErrs[0])
	}
	if !errors.Is(s.answerErrs[1], domain.ErrAlreadyAnswered) {
		return fmt.Errorf("second answer error = %v", s.answerErrs[1])
	}
	return nil
}

func (s *sessionScenarioState) thenHistoryLen(n int) error {
	if got := s.session.History().Len(); got != n {
		return fmt.Errorf("history len = %d, want %d", got, n)
	}
	return nil
}
