package vote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Snassy-icp/app-sneeddao-sub012/core/forum"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/reconciler"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeForum struct {
	votes   int
	err     error
	release chan struct{}
}

func (f *fakeForum) VoteOnPost(ctx context.Context, postID uint64, vote forum.VoteType) (forum.Outcome, error) {
	f.votes++
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return forum.Outcome{}, f.err
	}
	return forum.Outcome{Type: vote, Weight: 10}, nil
}

func (f *fakeForum) RetractVote(ctx context.Context, postID uint64) error {
	return f.err
}

func (f *fakeForum) RecordTip(ctx context.Context, tip forum.TipRecord) (uint64, error) {
	return 0, errors.New("not used")
}

func newTestVoter(t *testing.T, f forum.Forum) (*Voter, *clock.Mock) {
	mc := clock.NewMock()
	st := reconciler.New[forum.Outcome](reconciler.Options{Clock: mc})
	return NewVoter(f, st, zaptest.NewLogger(t)), mc
}

func TestVote(t *testing.T) {
	v, mc := newTestVoter(t, &fakeForum{})
	out, err := v.Vote(context.Background(), 1, forum.Upvote)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), out.Weight)
	st := v.State(1)
	assert.Equal(t, reconciler.Success, st.Phase)
	assert.Equal(t, forum.Upvote, st.Result.Type)

	mc.Add(2 * time.Second)
	assert.Eventually(t, func() bool { return v.State(1).Phase == reconciler.Idle }, time.Second, time.Millisecond)
}

func TestVoteInvalidType(t *testing.T) {
	f := &fakeForum{}
	v, _ := newTestVoter(t, f)
	_, err := v.Vote(context.Background(), 1, "sideways")
	assert.Error(t, err)
	assert.Zero(t, f.votes)
}

func TestVoteFailure(t *testing.T) {
	v, _ := newTestVoter(t, &fakeForum{err: errors.New("trap")})
	_, err := v.Vote(context.Background(), 1, forum.Downvote)
	assert.Error(t, err)
	assert.Equal(t, reconciler.Error, v.State(1).Phase)
}

func TestVoteWhilePending(t *testing.T) {
	f := &fakeForum{release: make(chan struct{})}
	v, _ := newTestVoter(t, f)
	done := make(chan error)
	go func() {
		_, err := v.Vote(context.Background(), 1, forum.Upvote)
		done <- err
	}()
	require.Eventually(t, func() bool { return v.State(1).Phase == reconciler.Pending }, time.Second, time.Millisecond)
	_, err := v.Vote(context.Background(), 1, forum.Upvote)
	assert.ErrorIs(t, err, reconciler.ErrInFlight)

	close(f.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.votes)
}

func TestRetract(t *testing.T) {
	v, _ := newTestVoter(t, &fakeForum{})
	require.NoError(t, v.Retract(context.Background(), 3))
	assert.Equal(t, reconciler.Success, v.State(3).Phase)
}
