package server

import (
	"net/http"
	"strconv"
	"strings"

	"coop_crm/internal/apperr"
	"coop_crm/internal/model"
	"coop_crm/internal/service/consult"
	"coop_crm/internal/service/tasks"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

const defaultFeedLimit = 15

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		ID       string `json:"id" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.Wrap(apperr.ValidationFailed, "malformed login request", err))
		return
	}
	sess, err := s.auth.Login(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": sess.Token, "name": sess.Name})
}

func (s *Server) handleLogout(c *gin.Context) {
	s.auth.Logout(c.Request.Context(), c.GetHeader(HeaderToken))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleFeed(c *gin.Context) {
	limit := defaultFeedLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	feed, err := s.consult.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": feed})
}

func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")
	var tags []string
	if raw := c.Query("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	customers, err := s.customers.Search(c.Request.Context(), query, tags)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (s *Server) handleCustomer(c *gin.Context) {
	cust, err := s.customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	sess := sessionFrom(c)
	if last, _ := s.viewed.Get(sess.Token); last != cust.CustomerID {
		s.audit.Record(c.Request.Context(), sess.Name, model.ActionView,
			cust.Name+"("+cust.CustomerID+") 조회")
		s.viewed.Set(sess.Token, cust.CustomerID, gocache.DefaultExpiration)
	}

	c.JSON(http.StatusOK, gin.H{"customer": cust, "grade": cust.Grade()})
}

func (s *Server) handleCustomerUpdate(c *gin.Context) {
	var req struct {
		Fields map[string]string `json:"fields" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.Wrap(apperr.ValidationFailed, "malformed update request", err))
		return
	}
	sess := sessionFrom(c)
	if err := s.customers.UpdateFields(c.Request.Context(), c.Param("id"), req.Fields, sess.Name); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleFinance(c *gin.Context) {
	records, err := s.customers.FinanceHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleHistory(c *gin.Context) {
	records, err := s.consult.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleTags(c *gin.Context) {
	tags, err := s.customers.TagVocabulary(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (s *Server) handleSaveNote(c *gin.Context) {
	var in consult.SaveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, apperr.Wrap(apperr.ValidationFailed, "malformed note", err))
		return
	}
	if in.FollowUp && in.Department == "" {
		s.fail(c, apperr.New(apperr.ValidationFailed, "조치 부서를 선택하세요"))
		return
	}
	in.Writer = sessionFrom(c).Name

	res, err := s.consult.Save(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) handleTasks(c *gin.Context) {
	groups, err := s.tasks.Pending(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": groups, "known": model.Departments})
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	var req struct {
		RecordID   string `json:"record_id"`
		Date       string `json:"date"`
		CustomerID string `json:"customer_id"`
		Result     string `json:"result" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.Wrap(apperr.ValidationFailed, "malformed completion", err))
		return
	}
	ref := tasks.TaskRef{RecordID: req.RecordID, Date: req.Date, CustomerID: req.CustomerID}
	if err := s.tasks.Complete(c.Request.Context(), ref, req.Result, sessionFrom(c).Name); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleRefresh backs the 데이터 최신화 button: drop every cached worksheet.
func (s *Server) handleRefresh(c *gin.Context) {
	s.tables.InvalidateAll()
	c.Status(http.StatusNoContent)
}
