package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/contact-desk/internal/challenge"
	"github.com/d60-Lab/contact-desk/internal/model"
	"github.com/d60-Lab/contact-desk/internal/validation"
)

func janeDoe() validation.Submission {
	return validation.Submission{
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		Message:       "I would like to ask about your services.",
		Captcha:       validation.NumericOf("10"),
		CaptchaAnswer: validation.NumericOf("10"),
	}
}

func newContactService(repo *mockMessageRepository, enq Enqueuer) ContactService {
	gen := challenge.NewGeneratorWith(func(int) int { return 4 })
	return NewContactService(repo, gen, validation.New(), enq)
}

func TestContactService_Challenge(t *testing.T) {
	c := newContactService(&mockMessageRepository{}, nil).Challenge()
	assert.Equal(t, "5 + 5 = ?", c.Question)
	assert.Equal(t, 10, c.Answer)
}

func TestContactService_Submit(t *testing.T) {
	var stored *model.Message
	repo := &mockMessageRepository{
		createFunc: func(ctx context.Context, msg *model.Message) error {
			msg.ID = 42
			stored = msg
			return nil
		},
	}
	enq := &recordingEnqueuer{}

	msg, err := newContactService(repo, enq).Submit(context.Background(), janeDoe(),
		Origin{IP: "203.0.113.7", UserAgent: "Mozilla/5.0"})
	require.NoError(t, err)
	assert.EqualValues(t, 42, msg.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "Jane Doe", stored.Name)
	assert.Equal(t, "203.0.113.7", stored.IPAddress)
	assert.Equal(t, "Mozilla/5.0", stored.UserAgent)
	require.Len(t, enq.msgs, 1)
	assert.Same(t, msg, enq.msgs[0])
}

func TestContactService_Submit_RejectedBeforeWrite(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*validation.Submission)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "invalid field",
			mutate: func(s *validation.Submission) { s.Email = "not-an-email" },
			check: func(t *testing.T, err error) {
				var verr *validation.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "email", verr.Details[0].Field)
			},
		},
		{
			name:   "wrong challenge",
			mutate: func(s *validation.Submission) { s.Captcha = validation.NumericOf("11") },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrChallengeFailed)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockMessageRepository{
				createFunc: func(ctx context.Context, msg *model.Message) error {
					t.Fatal("repository must not be called")
					return nil
				},
			}
			enq := &recordingEnqueuer{}
			sub := janeDoe()
			tc.mutate(&sub)

			_, err := newContactService(repo, enq).Submit(context.Background(), sub, Origin{})
			tc.check(t, err)
			assert.Empty(t, enq.msgs)
		})
	}
}

func TestContactService_Submit_StorageError(t *testing.T) {
	repo := &mockMessageRepository{
		createFunc: func(ctx context.Context, msg *model.Message) error {
			return errors.New("database is locked")
		},
	}
	enq := &recordingEnqueuer{}

	_, err := newContactService(repo, enq).Submit(context.Background(), janeDoe(), Origin{})
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, enq.msgs)
}
