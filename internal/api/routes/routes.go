package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hirewire/hirewire/internal/api/handlers"
	"github.com/hirewire/hirewire/internal/api/middleware"
)

type Deps struct {
	Tag         *handlers.TagHandler
	Vacancy     *handlers.VacancyHandler
	Application *handlers.ApplicationHandler
	Template    *handlers.TemplateHandler
	File        *handlers.FileHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public dictionaries
	r.GET("/tags", d.Tag.List)
	r.GET("/vacancies", d.Vacancy.List)
	r.GET("/vacancies/:id", d.Vacancy.Get)
	r.GET("/vacancies/:id/tags", d.Tag.ListVacancyTags)
	r.GET("/application-statuses", d.Application.ListStatuses)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.GET("/users/me/tags", d.Tag.ListUserTags)
	auth.POST("/users/me/tags", d.Tag.LinkUserTag)
	auth.PATCH("/users/me/tags/:link_id", d.Tag.MoveUserTag)
	auth.DELETE("/users/me/tags/:link_id", d.Tag.UnlinkUserTag)

	auth.GET("/vacancies/search", d.Vacancy.Search)
	auth.GET("/users/me/applications", d.Application.ListMine)
	auth.POST("/applications", d.Application.Create)
	auth.GET("/applications/:id", d.Application.Get)

	auth.POST("/files", d.File.Upload)
	auth.GET("/users/me/files", d.File.ListMine)

	// Recruiter surface
	recruiter := auth.Group("/")
	recruiter.Use(middleware.RequireRecruiter())

	recruiter.POST("/vacancies", d.Vacancy.Create)
	recruiter.DELETE("/vacancies/:id", d.Vacancy.Delete)
	recruiter.POST("/vacancies/:id/restore", d.Vacancy.Restore)
	recruiter.GET("/users/me/vacancies", d.Vacancy.ListMine)
	recruiter.POST("/vacancies/:id/tags", d.Tag.LinkVacancyTag)
	recruiter.PATCH("/vacancies/:id/tags/:link_id", d.Tag.MoveVacancyTag)
	recruiter.DELETE("/vacancies/:id/tags/:link_id", d.Tag.UnlinkVacancyTag)
	recruiter.GET("/vacancies/:id/applications", d.Application.ListForVacancy)
	recruiter.POST("/applications/:id/notes", d.Application.CreateNote)
	recruiter.GET("/applications/:id/notes", d.Application.ListNotes)

	recruiter.GET("/templates", d.Template.List)
	recruiter.GET("/templates/:id", d.Template.Get)
	recruiter.POST("/templates", d.Template.Create)
	recruiter.DELETE("/templates/:id", d.Template.Delete)
	recruiter.POST("/templates/:id/restore", d.Template.Restore)
}
