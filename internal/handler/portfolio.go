package handler

import (
	"net/http"
	"strconv"

	"horizonfolio/internal/domain"

	"github.com/gin-gonic/gin"
)

type ProjectsResponse struct {
	Projects []domain.Project `json:"projects"`
}

// GetProfile godoc
// @Summary      Portfolio profile
// @Description  Hero titles with their colour schemes, about sections and tech stack
// @Tags         portfolio
// @Produce      json
// @Success      200  {object}  domain.Profile
// @Router       /api/portfolio/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-profile")
	defer span.End()

	c.JSON(http.StatusOK, h.content.Profile)
}

// GetProjects godoc
// @Summary      Project gallery
// @Tags         portfolio
// @Produce      json
// @Success      200  {object}  ProjectsResponse
// @Router       /api/portfolio/projects [get]
func (h *Handler) GetProjects(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-projects")
	defer span.End()

	c.JSON(http.StatusOK, ProjectsResponse{Projects: h.content.Projects})
}

// GetProject godoc
// @Summary      Single project
// @Tags         portfolio
// @Produce      json
// @Param        id   path  int  true  "Project id"
// @Success      200  {object}  domain.Project
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/portfolio/projects/{id} [get]
func (h *Handler) GetProject(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-project")
	defer span.End()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	project, ok := h.content.Project(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}
