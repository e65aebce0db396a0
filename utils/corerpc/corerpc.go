package corerpc

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Snassy-icp/app-sneeddao-sub012/core/forum"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/tip"
	"github.com/Snassy-icp/app-sneeddao-sub012/core/vote"
	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"

	"github.com/gin-gonic/gin"
	"github.com/libp2p/go-reuseport"
	"go.uber.org/zap"
)

type Server struct {
	r      *gin.Engine
	srv    *http.Server
	tipper *tip.Tipper
	voter  *vote.Voter
	logger *zap.Logger
}

func NewServer(tipper *tip.Tipper, voter *vote.Voter, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		r:      gin.New(),
		tipper: tipper,
		voter:  voter,
		logger: logger,
	}
	s.r.Use(gin.Recovery(), s.logRequest)
	s.r.POST("/parse_account", s.parseAccount)
	s.r.GET("/parse_account/:text", s.parseAccount)
	s.r.POST("/encode_account", s.encodeAccount)
	s.r.GET("/account_id/:text", s.accountId)
	s.r.POST("/tip", s.sendTip)
	s.r.POST("/vote", s.vote)
	s.r.GET("/state/:kind/:key", s.getState)
	s.srv = &http.Server{Handler: s.r}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.r
}

func (s *Server) logRequest(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("rpc",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("took", time.Since(start)))
}

func fail(c *gin.Context, err error) {
	c.JSON(200, gin.H{"status": false, "msg": tip.UserMessage(err), "error": err.Error()})
}

func (s *Server) parseAccount(c *gin.Context) {
	var body struct {
		Text       string                   `json:"text"`
		Subaccount *address.SubaccountInput `json:"subaccount"`
	}
	body.Text = c.Param("text")
	if body.Text == "" {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(200, gin.H{"status": false, "msg": err.Error()})
			return
		}
	}
	acc, err := address.ParseAccount(body.Text, body.Subaccount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(200, gin.H{"status": true, "data": acc})
}

func (s *Server) encodeAccount(c *gin.Context) {
	var body struct {
		Owner      string `json:"owner"`
		Subaccount string `json:"subaccount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(200, gin.H{"status": false, "msg": err.Error()})
		return
	}
	var in *address.SubaccountInput
	if body.Subaccount != "" {
		in = &address.SubaccountInput{Kind: address.KindHex, Value: body.Subaccount}
	}
	acc, err := address.ParseAccount(body.Owner, in)
	if err != nil {
		fail(c, err)
		return
	}
	text, err := address.EncodeExtended(acc)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(200, gin.H{"status": true, "data": text})
}

func (s *Server) accountId(c *gin.Context) {
	acc, err := address.ParseAccount(c.Param("text"), nil)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(200, gin.H{"status": true, "data": address.AccountIdentifierOf(acc).String()})
}

func (s *Server) sendTip(c *gin.Context) {
	var req tip.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(200, gin.H{"status": false, "msg": err.Error()})
		return
	}
	r, err := s.tipper.Send(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(200, gin.H{"status": true, "data": r})
}

func (s *Server) vote(c *gin.Context) {
	var body struct {
		PostID   uint64         `json:"post_id"`
		VoteType forum.VoteType `json:"vote_type"`
		Retract  bool           `json:"retract"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(200, gin.H{"status": false, "msg": err.Error()})
		return
	}
	if body.Retract {
		if err := s.voter.Retract(c.Request.Context(), body.PostID); err != nil {
			fail(c, err)
			return
		}
		c.JSON(200, gin.H{"status": true})
		return
	}
	out, err := s.voter.Vote(c.Request.Context(), body.PostID, body.VoteType)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(200, gin.H{"status": true, "data": out})
}

func (s *Server) getState(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("key"), 10, 64)
	if err != nil {
		c.JSON(200, gin.H{"status": false, "msg": err.Error()})
		return
	}
	switch c.Param("kind") {
	case "tip":
		st := s.tipper.State(postID)
		c.JSON(200, gin.H{"status": true, "data": gin.H{"phase": st.Phase, "result": st.Result, "msg": tip.UserMessage(st.Err)}})
	case "vote":
		st := s.voter.State(postID)
		c.JSON(200, gin.H{"status": true, "data": gin.H{"phase": st.Phase, "result": st.Result, "msg": tip.UserMessage(st.Err)}})
	default:
		c.JSON(200, gin.H{"status": false, "msg": "unknown state kind"})
	}
}

// Run serves on addr until Shutdown is called.
func (s *Server) Run(addr string) error {
	ln, err := reuseport.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("rpc listening", zap.String("addr", ln.Addr().String()))
	err = s.srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
