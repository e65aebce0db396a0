package vote

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Snassy-icp/app-sneeddao-sub012/core/forum"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/reconciler"
	"go.uber.org/zap"
)

// Voter casts votes on posts, showing each outcome per post until it is
// refreshed from the forum.
type Voter struct {
	f      forum.Forum
	states *reconciler.Store[forum.Outcome]
	logger *zap.Logger
}

func NewVoter(f forum.Forum, states *reconciler.Store[forum.Outcome], logger *zap.Logger) *Voter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Voter{f: f, states: states, logger: logger}
}

func key(postID uint64) string {
	return strconv.FormatUint(postID, 10)
}

func (v *Voter) Vote(ctx context.Context, postID uint64, t forum.VoteType) (forum.Outcome, error) {
	if !t.Valid() {
		return forum.Outcome{}, fmt.Errorf("unknown vote type %q", t)
	}
	out, err := v.states.Run(ctx, key(postID), func(ctx context.Context) (forum.Outcome, error) {
		return v.f.VoteOnPost(ctx, postID, t)
	})
	if err != nil {
		v.logger.Info("vote failed", zap.Uint64("post", postID), zap.String("type", string(t)), zap.Error(err))
		return forum.Outcome{}, err
	}
	v.logger.Info("voted", zap.Uint64("post", postID), zap.String("type", string(out.Type)), zap.Uint64("weight", out.Weight))
	return out, nil
}

// Retract removes the caller's vote. The displayed outcome has a zero weight
// and no type.
func (v *Voter) Retract(ctx context.Context, postID uint64) error {
	_, err := v.states.Run(ctx, key(postID), func(ctx context.Context) (forum.Outcome, error) {
		return forum.Outcome{}, v.f.RetractVote(ctx, postID)
	})
	if err != nil {
		v.logger.Info("retract failed", zap.Uint64("post", postID), zap.Error(err))
	}
	return err
}

func (v *Voter) State(postID uint64) reconciler.State[forum.Outcome] {
	return v.states.State(key(postID))
}
