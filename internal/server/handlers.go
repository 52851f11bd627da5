package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/planner/internal/model"
	"github.com/Makepad-fr/planner/internal/remote"
	"github.com/Makepad-fr/planner/internal/store"
)

// Messages returned by the mutation endpoints.
const (
	MsgAdded          = "added"
	MsgDeleted        = "deleted"
	MsgExists         = "already exists"
	MsgNotFound       = "not found"
	MsgInvalidRequest = "invalid request"
	MsgInternal       = "internal error"
)

func (s *Server) handleList(c *gin.Context) {
	items, err := s.store.List(c.Request.Context())
	if err != nil {
		s.log.Error("list failed", "err", err)
		s.message(c, http.StatusInternalServerError, MsgInternal)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleAppend(c *gin.Context) {
	var req model.FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.message(c, http.StatusBadRequest, MsgInvalidRequest)
		return
	}
	it, err := s.store.Append(c.Request.Context(), req.Food)
	switch {
	case errors.Is(err, store.ErrExists):
		s.message(c, http.StatusConflict, MsgExists)
	case err != nil:
		s.log.Error("append failed", "food", req.Food, "err", err)
		s.message(c, http.StatusInternalServerError, MsgInternal)
	default:
		s.log.Info("appended", "food", it.Name, "id", it.ID)
		s.message(c, http.StatusOK, MsgAdded)
	}
}

func (s *Server) handleDelete(c *gin.Context) {
	var req model.FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.message(c, http.StatusBadRequest, MsgInvalidRequest)
		return
	}
	err := s.store.Delete(c.Request.Context(), req.Food)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.message(c, http.StatusNotFound, MsgNotFound)
	case err != nil:
		s.log.Error("delete failed", "food", req.Food, "err", err)
		s.message(c, http.StatusInternalServerError, MsgInternal)
	default:
		s.log.Info("deleted", "food", req.Food)
		s.message(c, http.StatusOK, MsgDeleted)
	}
}

// message writes msg in whichever wire format the server was started with.
func (s *Server) message(c *gin.Context, status int, msg string) {
	encode := remote.EncodeMessage
	if s.opts.Plain {
		encode = remote.EncodePlainMessage
	}
	body, err := encode(msg)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}
