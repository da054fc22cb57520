package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hrbot/api/http/presenter"
	"github.com/artem13815/hrbot/pkg/resume"
	"github.com/artem13815/hrbot/pkg/vacancy"
)

const adminExcerptRunes = 100

// AdminHandler exposes the read-only admin view over HTTP.
type AdminHandler struct {
	resumes   resume.UseCase
	vacancies vacancy.UseCase
}

func NewAdminHandler(resumes resume.UseCase, vacancies vacancy.UseCase) *AdminHandler {
	return &AdminHandler{resumes: resumes, vacancies: vacancies}
}

type resumeDTO struct {
	ID        int64   `json:"id"`
	VacancyID int64   `json:"vacancyId"`
	Score     float64 `json:"score"`
	Analysis  string  `json:"analysis"`
}

type resumeListResponse struct {
	Items  []resumeDTO `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

type vacancyResponse struct {
	Vacancy   vacancy.Vacancy `json:"vacancy"`
	Shortlist []resumeDTO     `json:"shortlist"`
}

func toDTO(r resume.Resume) resumeDTO {
	analysis := r.Analysis
	if rs := []rune(analysis); len(rs) > adminExcerptRunes {
		analysis = string(rs[:adminExcerptRunes])
	}
	return resumeDTO{ID: r.ID, VacancyID: r.VacancyID, Score: r.Score, Analysis: analysis}
}

// ListResumes lists every stored resume ordered by id.
// @Summary     Все резюме
// @Description Вакансия, оценка и первые 100 символов анализа каждого резюме.
// @Tags        Админ
// @Produce     json
// @Param       limit  query int false "Лимит (1..200)"
// @Param       offset query int false "Смещение"
// @Security    BearerAuth
// @Success     200 {object} resumeListResponse
// @Failure     401 {object} presenter.ErrorResponse
// @Failure     403 {object} presenter.ErrorResponse
// @Failure     500 {object} presenter.ErrorResponse
// @Router      /api/v1/admin/resumes [get]
func (h *AdminHandler) ListResumes(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	res, err := h.resumes.ListPage(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list resumes")
	}
	out := resumeListResponse{Items: make([]resumeDTO, 0, len(res.Items)), Total: res.Total, Limit: p.Limit, Offset: p.Offset}
	for _, r := range res.Items {
		out.Items = append(out.Items, toDTO(r))
	}
	return presenter.JSON(c, http.StatusOK, out)
}

// GetVacancy returns a vacancy with its current top candidates.
// @Summary     Вакансия и шорт-лист
// @Tags        Админ
// @Produce     json
// @Param       id path int true "ID вакансии"
// @Security    BearerAuth
// @Success     200 {object} vacancyResponse
// @Failure     400 {object} presenter.ErrorResponse
// @Failure     404 {object} presenter.ErrorResponse
// @Router      /api/v1/admin/vacancies/{id} [get]
func (h *AdminHandler) GetVacancy(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return presenter.Error(c, http.StatusBadRequest, "invalid vacancy id")
	}
	v, err := h.vacancies.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, vacancy.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "vacancy not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load vacancy")
	}
	top, err := h.resumes.Shortlist(c.UserContext(), id)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to load shortlist")
	}
	out := vacancyResponse{Vacancy: v, Shortlist: make([]resumeDTO, 0, len(top))}
	for _, r := range top {
		out.Shortlist = append(out.Shortlist, toDTO(r))
	}
	return presenter.JSON(c, http.StatusOK, out)
}
