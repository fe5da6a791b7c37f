package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"habitbot/internal/ai"
	"habitbot/internal/domain"
	"habitbot/internal/mail"
	"habitbot/internal/service"
	"habitbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var taipei = time.FixedZone("Asia/Taipei", 8*3600)

type fakeMailer struct {
	configured bool
	err        error
	sent       []mail.Message
}

func (f *fakeMailer) Configured() bool {
	return f.configured
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type call struct {
	kind  domain.PromptKind
	name  string
	extra string
}

type fakeComposer struct {
	calls []call
}

func (f *fakeComposer) Compose(ctx context.Context, kind domain.PromptKind, userName, extra string) string {
	f.calls = append(f.calls, call{kind: kind, name: userName, extra: extra})
	return fmt.Sprintf("%s for %s", kind, userName)
}

type fixture struct {
	userRepo    *testutil.MockUserRepository
	recordRepo  *testutil.MockRecordRepository
	expenseRepo *testutil.MockExpenseRepository
	messenger   *testutil.MockMessenger
	composer    *fakeComposer
	mailer      *fakeMailer
	sched       *Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		userRepo:    new(testutil.MockUserRepository),
		recordRepo:  new(testutil.MockRecordRepository),
		expenseRepo: new(testutil.MockExpenseRepository),
		messenger:   new(testutil.MockMessenger),
		composer:    &fakeComposer{},
		mailer:      &fakeMailer{configured: true},
	}

	logger := testutil.NewTestLogger()
	records := service.NewRecordService(f.recordRepo, taipei)

	sched, err := New(Config{
		Location:    taipei,
		MorningTime: "08:00",
		EveningTime: "20:00",
		SummaryTime: "20:30",
	}, Deps{
		Users:     service.NewUserService(f.userRepo),
		Messenger: f.messenger,
		Composer:  f.composer,
		Goals:     records,
		Summaries: service.NewSummaryService(f.userRepo, records, f.expenseRepo, logger),
		Mailer:    f.mailer,
	}, logger)
	require.NoError(t, err)

	f.sched = sched
	return f
}

func threeUsers() []domain.User {
	return []domain.User{
		{ID: "1", Name: "Ann"},
		{ID: "2", Name: "Bob"},
		{ID: "3", Name: "Cat"},
	}
}

func TestRunTask_OneFailingUserDoesNotStopOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.userRepo.On("ListUsers", ctx).Return(threeUsers(), nil)
	f.messenger.On("Push", ctx, "1", "evening for Ann").Return(nil)
	f.messenger.On("Push", ctx, "2", "evening for Bob").Return(errors.New("blocked by user"))
	f.messenger.On("Push", ctx, "3", "evening for Cat").Return(nil)

	assert.NotPanics(t, func() {
		f.sched.RunTask(ctx, domain.TaskEvening)
	})

	f.messenger.AssertNumberOfCalls(t, "Push", 3)
	f.messenger.AssertExpectations(t)
}

func TestRunTask_RecoversFromPanic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.userRepo.On("ListUsers", ctx).Return(threeUsers(), nil)
	f.messenger.On("Push", ctx, "1", mock.Anything).Return(nil)
	f.messenger.On("Push", ctx, "2", mock.Anything).Run(func(args mock.Arguments) {
		panic("connection reset")
	})
	f.messenger.On("Push", ctx, "3", mock.Anything).Return(nil)

	assert.NotPanics(t, func() {
		f.sched.RunTask(ctx, domain.TaskVocabulary)
	})

	f.messenger.AssertNumberOfCalls(t, "Push", 3)
}

func TestRunTask_ListError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.userRepo.On("ListUsers", ctx).Return(nil, errors.New("db down"))

	f.sched.RunTask(ctx, domain.TaskMorning)

	f.messenger.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunTask_Morning_UsesYesterdayGoals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.userRepo.On("ListUsers", ctx).Return([]domain.User{{ID: "1", Name: "Ann"}}, nil)
	f.recordRepo.On("GetGoals", ctx, "1", mock.AnythingOfType("time.Time")).
		Return(&domain.DailyGoals{UserID: "1", Goals: [domain.GoalsPerDay]string{"run", "", "read"}}, nil)
	f.messenger.On("Push", ctx, "1", "morning for Ann").Return(nil)

	f.sched.RunTask(ctx, domain.TaskMorning)

	require.Len(t, f.composer.calls, 1)
	assert.Equal(t, domain.PromptMorning, f.composer.calls[0].kind)
	assert.Equal(t, "1. run\n3. read", f.composer.calls[0].extra)
	f.messenger.AssertExpectations(t)
}

func TestRunTask_Morning_GoalsErrorSkipsPush(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.userRepo.On("ListUsers", ctx).Return([]domain.User{{ID: "1", Name: "Ann"}}, nil)
	f.recordRepo.On("GetGoals", ctx, "1", mock.AnythingOfType("time.Time")).Return(nil, errors.New("timeout"))

	f.sched.RunTask(ctx, domain.TaskMorning)

	f.messenger.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunTask_StopsWhenContextCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.userRepo.On("ListUsers", ctx).Return(threeUsers(), nil)

	f.sched.RunTask(ctx, domain.TaskEvening)

	f.messenger.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunForUser_UnknownUserGetsGenericName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.userRepo.On("GetUser", ctx, "9").Return(nil, nil)
	f.messenger.On("Push", ctx, "9", "evening for there").Return(nil)

	err := f.sched.RunForUser(ctx, domain.TaskEvening, "9")

	assert.NoError(t, err)
	f.messenger.AssertExpectations(t)
}

func TestRunForUser_PushError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.userRepo.On("GetUser", ctx, "1").Return(testutil.NewTestUser("1", "Ann"), nil)
	f.messenger.On("Push", ctx, "1", mock.Anything).Return(errors.New("forbidden"))

	err := f.sched.RunForUser(ctx, domain.TaskVocabulary, "1")

	assert.Error(t, err)
}

func TestRunForUser_UnknownTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.userRepo.On("GetUser", ctx, "1").Return(testutil.NewTestUser("1", "Ann"), nil)

	err := f.sched.RunForUser(ctx, domain.Task("noon"), "1")

	assert.Error(t, err)
}

func expectSummary(f *fixture, ctx context.Context, userID string, expenses []domain.Expense) {
	f.userRepo.On("GetUser", ctx, userID).Return(testutil.NewTestUser(userID, "Ann"), nil)
	f.recordRepo.On("GetGoals", ctx, userID, mock.AnythingOfType("time.Time")).Return(nil, nil)
	f.recordRepo.On("GetDiary", ctx, userID, mock.AnythingOfType("time.Time")).
		Return(&domain.DiaryEntry{UserID: userID, Content: "Quiet day"}, nil)
	f.recordRepo.On("GetVocabulary", ctx, userID, mock.AnythingOfType("time.Time")).Return(nil, nil)
	f.expenseRepo.On("GetExpenses", ctx, userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(expenses, nil)
}

func TestRunForUser_SummaryEmailWithChart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, taipei)

	expectSummary(f, ctx, "1", []domain.Expense{
		testutil.NewTestExpense(1, "1", "120", "Food", "lunch", day),
		testutil.NewTestExpense(2, "1", "30", "Transport", "", day),
	})

	err := f.sched.RunForUser(ctx, domain.TaskSummary, "1")

	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.True(t, strings.HasPrefix(msg.Subject, "Daily summary for Ann"))
	assert.Contains(t, msg.HTML, "Quiet day")
	assert.Contains(t, msg.HTML, "summary for Ann")
	assert.Contains(t, msg.HTML, "cid:"+mail.ChartName)
	require.Len(t, msg.Inline, 1)
	assert.Equal(t, mail.ChartName, msg.Inline[0].Name)
	assert.NotEmpty(t, msg.Inline[0].Content)
	require.Len(t, msg.Attachments, 1)
	assert.True(t, strings.HasPrefix(msg.Attachments[0].Name, "expenses_"))
	assert.True(t, strings.HasSuffix(msg.Attachments[0].Name, ".csv"))
	assert.Contains(t, string(msg.Attachments[0].Content), "Food,120.00,lunch")
	assert.Contains(t, string(msg.Attachments[0].Content), "Transport,30.00,")

	require.Len(t, f.composer.calls, 1)
	assert.Equal(t, domain.PromptSummary, f.composer.calls[0].kind)
	assert.Contains(t, f.composer.calls[0].extra, "Food: $120")
	f.messenger.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunForUser_SummaryWithoutExpensesHasNoChart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expectSummary(f, ctx, "1", nil)

	err := f.sched.RunForUser(ctx, domain.TaskSummary, "1")

	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 1)
	assert.Empty(t, f.mailer.sent[0].Inline)
	assert.Empty(t, f.mailer.sent[0].Attachments)
	assert.NotContains(t, f.mailer.sent[0].HTML, "cid:")
}

func TestRunForUser_SummarySkippedWithoutMail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mailer.configured = false

	f.userRepo.On("GetUser", ctx, "1").Return(testutil.NewTestUser("1", "Ann"), nil)

	err := f.sched.RunForUser(ctx, domain.TaskSummary, "1")

	assert.ErrorIs(t, err, mail.ErrNotConfigured)
	assert.Empty(t, f.mailer.sent)
	f.expenseRepo.AssertNotCalled(t, "GetExpenses", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunForUser_SummarySendError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mailer.err = errors.New("535 authentication failed")

	expectSummary(f, ctx, "1", nil)

	err := f.sched.RunForUser(ctx, domain.TaskSummary, "1")

	assert.Error(t, err)
}

func TestRunForUser_SummaryReportsMailNotConfigured(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mailer.err = mail.ErrNotConfigured

	expectSummary(f, ctx, "1", nil)

	err := f.sched.RunForUser(ctx, domain.TaskSummary, "1")

	assert.ErrorIs(t, err, mail.ErrNotConfigured)
}

func TestRunTask_SummaryWithoutMailSkipsEveryUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mailer.configured = false

	f.userRepo.On("ListUsers", ctx).Return(threeUsers(), nil)

	assert.NotPanics(t, func() {
		f.sched.RunTask(ctx, domain.TaskSummary)
	})

	assert.Empty(t, f.mailer.sent)
	f.expenseRepo.AssertNotCalled(t, "GetExpenses", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunForUser_FallbackTexts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sched.Composer = ai.NewAssistant(ai.Config{}, testutil.NewTestLogger())

	f.userRepo.On("GetUser", ctx, "1").Return(testutil.NewTestUser("1", "Ann"), nil)
	f.messenger.On("Push", ctx, "1", "Reminder: Ann, remember to study your vocabulary!").Return(nil)

	err := f.sched.RunForUser(ctx, domain.TaskVocabulary, "1")

	assert.NoError(t, err)
	f.messenger.AssertExpectations(t)
}

func TestDueTasks(t *testing.T) {
	f := newFixture(t)
	at := func(day, hour, minute, sec int) time.Time {
		return time.Date(2024, 5, day, hour, minute, sec, 0, taipei)
	}

	tests := []struct {
		name     string
		prev     time.Time
		cur      time.Time
		expected []domain.Task
	}{
		{
			name:     "window contains morning",
			prev:     at(1, 7, 59, 30),
			cur:      at(1, 8, 0, 30),
			expected: []domain.Task{domain.TaskMorning},
		},
		{
			name:     "upper bound is inclusive",
			prev:     at(1, 7, 59, 0),
			cur:      at(1, 8, 0, 0),
			expected: []domain.Task{domain.TaskMorning},
		},
		{
			name: "lower bound is exclusive",
			prev: at(1, 8, 0, 0),
			cur:  at(1, 8, 1, 0),
		},
		{
			name:     "long window fires evening and summary once",
			prev:     at(1, 19, 59, 0),
			cur:      at(1, 20, 31, 0),
			expected: []domain.Task{domain.TaskEvening, domain.TaskSummary},
		},
		{
			name:     "window across midnight",
			prev:     at(1, 23, 59, 30),
			cur:      at(2, 8, 0, 30),
			expected: []domain.Task{domain.TaskMorning},
		},
		{
			name:     "utc input is converted",
			prev:     at(1, 7, 59, 30).UTC(),
			cur:      at(1, 8, 0, 30).UTC(),
			expected: []domain.Task{domain.TaskMorning},
		},
		{
			name: "clock went backwards",
			prev: at(1, 8, 0, 30),
			cur:  at(1, 7, 59, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.sched.dueTasks(tt.prev, tt.cur))
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		value   string
		hour    int
		minute  int
		wantErr bool
	}{
		{value: "08:00", hour: 8, minute: 0},
		{value: " 20:30 ", hour: 20, minute: 30},
		{value: "23:59", hour: 23, minute: 59},
		{value: "24:00", wantErr: true},
		{value: "8am", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			hour, minute, err := ParseClock(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

func TestNew_InvalidTime(t *testing.T) {
	_, err := New(Config{MorningTime: "08:00", EveningTime: "late", SummaryTime: "20:30"}, Deps{}, testutil.NewTestLogger())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "evening")
}

func TestStart_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	f.sched.interval = time.Millisecond
	f.sched.now = testutil.FixedNow(time.Date(2024, 5, 1, 8, 0, 0, 0, taipei))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.sched.Start(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	f.userRepo.AssertNotCalled(t, "ListUsers", mock.Anything)
}
