/*
Package server exposes the predictions of a forest over HTTP.

It serves:
  - POST /predict with a body like {"rows":[{"x":1.5,"y":0}]}, answering
    {"predictions":[1],"votes":[0.67]} with the predicted label and the mean
    tree vote for every row,
  - GET /trees with the rendering of every tree of the forest,
  - GET /healthz.
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pbanos/sprout/feature"
	"github.com/pbanos/sprout/tree"
	"go.uber.org/zap"
)

// PredictRequest is the body of a prediction request
type PredictRequest struct {
	Rows []feature.MapSample `json:"rows" binding:"required"`
}

// PredictResponse is the body of a successful prediction response
type PredictResponse struct {
	Predictions []int     `json:"predictions"`
	Votes       []float64 `json:"votes"`
}

type treeResponse struct {
	Index    int    `json:"index"`
	Nodes    int    `json:"nodes"`
	Leaves   int    `json:"leaves"`
	Depth    int    `json:"depth"`
	Rendered string `json:"rendered"`
}

/*
Server serves the predictions of a forest.
*/
type Server struct {
	forest *tree.Forest
	logger *zap.Logger
	engine *gin.Engine
}

/*
New takes a forest and a logger and returns a server for the forest. A nil
logger discards the request logs.
*/
func New(f *tree.Forest, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{forest: f, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.logRequests)
	s.engine.GET("/healthz", s.healthz)
	s.engine.GET("/trees", s.trees)
	s.engine.POST("/predict", s.predict)
	return s
}

// Handler returns the http.Handler serving the forest
func (s *Server) Handler() http.Handler {
	return s.engine
}

/*
Run serves the forest on the given address until the context is
cancelled, then shuts the server down gracefully. It returns an error
if the server cannot listen or fails.
*/
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}
	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	s.logger.Info("serving forest", zap.String("address", addr), zap.Int("trees", len(s.forest.Trees)))
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(sctx)
	if err != nil {
		return err
	}
	if err = <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("handled request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "trees": len(s.forest.Trees)})
}

func (s *Server) trees(c *gin.Context) {
	trees := make([]treeResponse, 0, len(s.forest.Trees))
	for i, t := range s.forest.Trees {
		nodes, leaves, depth := t.Stats()
		trees = append(trees, treeResponse{i, nodes, leaves, depth, t.String()})
	}
	c.JSON(http.StatusOK, gin.H{"label": s.forest.Label(), "trees": trees})
}

func (s *Server) predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	resp := PredictResponse{
		Predictions: make([]int, 0, len(req.Rows)),
		Votes:       make([]float64, 0, len(req.Rows)),
	}
	for i, row := range req.Rows {
		vote, err := s.forest.Vote(ctx, row)
		if err != nil {
			status := http.StatusInternalServerError
			var mfe *feature.MissingFeatureError
			if errors.As(err, &mfe) {
				status = http.StatusUnprocessableEntity
			}
			s.logger.Info("prediction failed", zap.Int("row", i), zap.Error(err))
			c.JSON(status, gin.H{"error": fmt.Sprintf("row %d: %v", i, err)})
			return
		}
		prediction := 0
		if vote >= 0.5 {
			prediction = 1
		}
		resp.Predictions = append(resp.Predictions, prediction)
		resp.Votes = append(resp.Votes, vote)
	}
	c.JSON(http.StatusOK, resp)
}
