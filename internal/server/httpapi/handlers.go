package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cvyas/quotewall/internal/common"
	"github.com/cvyas/quotewall/internal/server/models"
	"github.com/cvyas/quotewall/internal/server/services"
)

const entriesPerPage = 10

// formValues keeps submitted input around so the form can be
// re-rendered with what the visitor typed.
type formValues struct {
	Name   string
	Quote  string
	Advice string
}

func (s *Server) renderForm(c *gin.Context, status int, values formValues, fieldErrors map[string]string, errorNotice string) {
	c.HTML(status, "index.tmpl", gin.H{
		"CSRFToken":   c.GetString(csrfTokenKey),
		"Values":      values,
		"FieldErrors": fieldErrors,
		"Notice":      c.Query("notice"),
		"Error":       errorNotice,
	})
}

func (s *Server) showForm(c *gin.Context) {
	s.renderForm(c, http.StatusOK, formValues{}, nil, c.Query("error"))
}

func (s *Server) submitForm(c *gin.Context) {
	values := formValues{
		Name:   c.PostForm("username"),
		Quote:  c.PostForm("quote"),
		Advice: c.PostForm("advice"),
	}

	_, err := s.entries.Upsert(c.Request.Context(), values.Name, values.Quote, values.Advice)

	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		s.renderForm(c, http.StatusUnprocessableEntity, values, verr.Fields(), "")
	case err != nil:
		s.logger.Error(c.Request.Context(), "saving entry failed",
			"request_id", c.GetString(requestIDKey), "error", err)
		s.renderForm(c, http.StatusInternalServerError, values, nil, "An error occurred while saving your data. Please try again.")
	default:
		notice := "Successfully saved data for " + strings.TrimSpace(values.Name) + "!"
		c.Redirect(http.StatusSeeOther, "/output?notice="+url.QueryEscape(notice))
	}
}

func (s *Server) listEntries(c *gin.Context) {
	page, _ := strconv.Atoi(c.Param("page"))
	if page < 1 {
		page = 1
	}
	search := strings.TrimSpace(c.Query("search"))

	users, total, err := s.entries.List(c.Request.Context(), entriesPerPage, (page-1)*entriesPerPage, search)
	if err != nil {
		s.logger.Error(c.Request.Context(), "listing entries failed",
			"request_id", c.GetString(requestIDKey), "error", err)
		c.HTML(http.StatusInternalServerError, "error.tmpl", gin.H{
			"Code": 500, "Message": "Could not load entries. Please try again.",
		})
		return
	}

	totalPages := (total + entriesPerPage - 1) / entriesPerPage

	c.HTML(http.StatusOK, "list.tmpl", gin.H{
		"Users":       users,
		"CurrentPage": page,
		"PrevPage":    page - 1,
		"NextPage":    page + 1,
		"TotalPages":  totalPages,
		"TotalCount":  total,
		"SearchTerm":  search,
		"Notice":      c.Query("notice"),
		"Error":       c.Query("error"),
		"CSRFToken":   c.GetString(csrfTokenKey),
	})
}

func (s *Server) userProfile(c *gin.Context) {
	name := c.Param("name")

	user, err := s.entries.GetByName(c.Request.Context(), name)
	if errors.Is(err, common.ErrNotFound) {
		c.Redirect(http.StatusSeeOther, "/output?error="+url.QueryEscape("User '"+name+"' not found."))
		return
	}
	if err != nil {
		s.logger.Error(c.Request.Context(), "loading profile failed",
			"request_id", c.GetString(requestIDKey), "error", err)
		c.HTML(http.StatusInternalServerError, "error.tmpl", gin.H{
			"Code": 500, "Message": "Could not load this profile. Please try again.",
		})
		return
	}

	c.HTML(http.StatusOK, "profile.tmpl", gin.H{"User": user})
}

func (s *Server) deleteEntry(c *gin.Context) {
	name := c.Param("name")

	deleted, err := s.entries.DeleteByName(c.Request.Context(), name)
	if err != nil {
		s.logger.Error(c.Request.Context(), "deleting entry failed",
			"request_id", c.GetString(requestIDKey), "error", err)
		c.Redirect(http.StatusSeeOther, "/output?error="+url.QueryEscape("Could not delete the entry. Please try again."))
		return
	}
	if !deleted {
		c.Redirect(http.StatusSeeOther, "/output?error="+url.QueryEscape("User '"+name+"' not found."))
		return
	}
	c.Redirect(http.StatusSeeOther, "/output?notice="+url.QueryEscape("Deleted entry for "+name+"."))
}

func (s *Server) health(c *gin.Context) {
	if err := s.entries.Ping(c.Request.Context()); err != nil {
		s.logger.Error(c.Request.Context(), "health check failed",
			"request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// --- JSON API mirrors ---

type userJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Quote     string    `json:"quote"`
	Advice    string    `json:"advice"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserJSON(e models.UserEntry) userJSON {
	return userJSON{
		ID:        e.ID,
		Name:      e.Name,
		Quote:     e.Quote,
		Advice:    e.Advice,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (s *Server) apiListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if perPage < 1 {
		perPage = 10
	}
	// Clamp before computing the offset; otherwise oversized page
	// sizes shift the offset past rows the store will never return.
	if perPage > services.MaxListLimit {
		perPage = services.MaxListLimit
	}
	search := strings.TrimSpace(c.Query("search"))

	users, total, err := s.entries.List(c.Request.Context(), perPage, (page-1)*perPage, search)
	if err != nil {
		s.logger.Error(c.Request.Context(), "api list failed",
			"request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	out := make([]userJSON, 0, len(users))
	for _, u := range users {
		out = append(out, toUserJSON(u))
	}

	c.JSON(http.StatusOK, gin.H{
		"users": out,
		"pagination": gin.H{
			"page":     page,
			"per_page": perPage,
			"total":    total,
			"pages":    (total + perPage - 1) / perPage,
		},
	})
}

func (s *Server) apiGetUser(c *gin.Context) {
	user, err := s.entries.GetByName(c.Request.Context(), c.Param("name"))
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		s.logger.Error(c.Request.Context(), "api get failed",
			"request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, toUserJSON(*user))
}

func (s *Server) apiDeleteUser(c *gin.Context) {
	deleted, err := s.entries.DeleteByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.logger.Error(c.Request.Context(), "api delete failed",
			"request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}
