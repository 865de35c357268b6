package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"go-user-api/internal/domain"
	"go-user-api/internal/repo"
	resp "go-user-api/internal/transport/http/response"
)

// boundary cap on page size; the repository itself enforces no upper bound
const maxPageLimit = 100

// Users maps the /users routes onto the user repository. The routing layer
// owns status translation: empty repository results become 404 envelopes,
// duplicate emails are rejected before the write.
type Users struct {
	Repo *repo.UserRepo
}

func (h *Users) MountAPI(g *gin.RouterGroup) {
	g.POST("/users", h.create)
	g.GET("/users", h.list)
	g.GET("/users/active", h.listActive)
	g.GET("/users/search/:term", h.search)
	g.GET("/users/:id", h.get)
	g.PUT("/users/:id", h.update)
	g.POST("/users/:id/activate", h.activate)
	g.POST("/users/:id/deactivate", h.deactivate)
	g.DELETE("/users/:id", h.remove)
}

func pageParams(c *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}
	return skip, limit
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "invalid id"))
		return 0, false
	}
	return uint(id), true
}

func (h *Users) create(c *gin.Context) {
	var in domain.UserCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	ctx := c.Request.Context()

	// primary duplicate enforcement; the unique constraint below is the net
	if existing, err := h.Repo.GetByEmail(ctx, in.Email); err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	} else if existing != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeConflict, domain.ErrEmailTaken.Error()))
		return
	}

	u, err := h.Repo.Create(ctx, in)
	if err != nil {
		if isDupKey(err) {
			c.JSON(http.StatusOK, resp.Error(resp.CodeConflict, domain.ErrEmailTaken.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp.OK(u))
}

func (h *Users) list(c *gin.Context) {
	skip, limit := pageParams(c)
	ctx := c.Request.Context()

	total, err := h.Repo.Count(ctx)
	if err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	users, err := h.Repo.Page(ctx, skip, limit)
	if err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{
		"items": users, "total": total, "skip": skip, "limit": limit,
	}))
}

func (h *Users) listActive(c *gin.Context) {
	skip, limit := pageParams(c)
	users, err := h.Repo.ActiveUsers(c.Request.Context(), skip, limit)
	if err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp.OK(users))
}

func (h *Users) search(c *gin.Context) {
	skip, limit := pageParams(c)
	term := c.Param("term")
	users, err := h.Repo.SearchByNameOrEmail(c.Request.Context(), term, skip, limit)
	if err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp.OK(users))
}

func (h *Users) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	if u == nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "user not found"))
		return
	}
	c.JSON(http.StatusOK, resp.OK(u))
}

func (h *Users) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in domain.UserUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	ctx := c.Request.Context()

	existing, err := h.Repo.Get(ctx, id)
	if err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	if existing == nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "user not found"))
		return
	}
	if in.Email != nil && *in.Email != existing.Email {
		if other, err := h.Repo.GetByEmail(ctx, *in.Email); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		} else if other != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeConflict, domain.ErrEmailTaken.Error()))
			return
		}
	}

	u, err := h.Repo.Update(ctx, existing, in)
	if err != nil {
		if isDupKey(err) {
			c.JSON(http.StatusOK, resp.Error(resp.CodeConflict, domain.ErrEmailTaken.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp.OK(u))
}

func (h *Users) activate(c *gin.Context)   { h.setActive(c, true) }
func (h *Users) deactivate(c *gin.Context) { h.setActive(c, false) }

func (h *Users) setActive(c *gin.Context, active bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	u, err := h.Repo.Get(ctx, id)
	if err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	if u == nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "user not found"))
		return
	}
	if active {
		u, err = h.Repo.Activate(ctx, u)
	} else {
		u, err = h.Repo.Deactivate(ctx, u)
	}
	if err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp.OK(u))
}

func (h *Users) remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Repo.Remove(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	if u == nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "user not found"))
		return
	}
	c.JSON(http.StatusOK, resp.OK(u))
}

// isDupKey sniffs driver-specific unique violation messages so we do not pin
// a gorm error constant that differs across drivers.
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
