package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/artem13815/hrbot/pkg/auth"
	"github.com/artem13815/hrbot/pkg/report"
	"github.com/artem13815/hrbot/pkg/resume"
	"github.com/artem13815/hrbot/pkg/session"
	"github.com/artem13815/hrbot/pkg/sheets"
	"github.com/artem13815/hrbot/pkg/vacancy"
)

func (m *Machine) start(ctx context.Context, ev Event, s *session.Session) (State, error) {
	if !m.d.Gate.IsAuthorized(ctx, ev.UserID) {
		m.reply(ctx, ev.ChatID, msgDenyStart)
		return s.State, nil
	}
	m.reply(ctx, ev.ChatID, msgGreeting)
	return s.State, nil
}

// addVacancy (re)starts vacancy capture. Whatever the session held is dropped.
func (m *Machine) addVacancy(ctx context.Context, ev Event, s *session.Session) (State, error) {
	if !m.d.Gate.IsAuthorized(ctx, ev.UserID) {
		m.reply(ctx, ev.ChatID, msgDenyVacancy)
		return StateIdle, nil
	}
	*s = session.New(ev.ChatID, ev.UserID, StateVacancy)
	m.reply(ctx, ev.ChatID, msgVacancyPrompt)
	return StateVacancy, nil
}

func (m *Machine) saveVacancy(ctx context.Context, ev Event, s *session.Session) (State, error) {
	if !m.d.Gate.IsAuthorized(ctx, ev.UserID) {
		m.reply(ctx, ev.ChatID, msgDenySave)
		return StateIdle, nil
	}
	in, ok := vacancy.ParseInput(ev.Text)
	if !ok {
		m.reply(ctx, ev.ChatID, msgVacancyReprompt)
		return StateVacancy, nil
	}
	v, err := m.d.Vacancies.Create(ctx, ev.UserID, in)
	if err != nil {
		return s.State, fmt.Errorf("create vacancy: %w", err)
	}
	s.VacancyID = v.ID
	s.VacancyText = v.Data
	m.reply(ctx, ev.ChatID, msgVacancySaved)
	return StateResume, nil
}

func (m *Machine) handleResume(ctx context.Context, ev Event, s *session.Session) (State, error) {
	log := m.log.With(zap.Int64("chat_id", ev.ChatID), zap.Int64("user_id", ev.UserID))
	if !m.d.Gate.IsAuthorized(ctx, ev.UserID) {
		m.reply(ctx, ev.ChatID, msgDenyResume)
		return StateIdle, nil
	}
	doc := ev.Document
	if doc == nil {
		m.reply(ctx, ev.ChatID, msgNeedDocument)
		return StateResume, nil
	}

	text := m.extract(ctx, log, doc)
	if text == "" {
		m.reply(ctx, ev.ChatID, msgExtractionFailed)
		return StateResume, nil
	}
	if !s.HasVacancy() {
		m.reply(ctx, ev.ChatID, msgNoVacancy)
		return StateIdle, nil
	}

	res := m.d.Scorer.Score(ctx, text, s.VacancyText)
	saved, err := m.d.Resumes.Save(ctx, resume.Resume{
		VacancyID: s.VacancyID,
		UserID:    ev.UserID,
		Text:      text,
		Score:     res.Score,
		Analysis:  res.Narrative,
	})
	if err != nil {
		return s.State, fmt.Errorf("save resume: %w", err)
	}
	log.Info("resume scored", zap.Int64("resume_id", saved.ID), zap.Int64("vacancy_id", saved.VacancyID), zap.Float64("score", saved.Score))

	m.reply(ctx, ev.ChatID, msgResumeScored(saved.Score, saved.Analysis))
	m.sendReport(ctx, log, ev.ChatID, saved)
	m.export(ctx, log, saved)
	return StateProcessing, nil
}

// extract downloads the document and returns its text, or "" on any failure.
func (m *Machine) extract(ctx context.Context, log *zap.Logger, doc *Document) string {
	suffix := resume.Suffix(doc.MimeType, doc.FileName)
	if suffix == "" {
		log.Info("unsupported document", zap.String("mime_type", doc.MimeType), zap.String("file_name", doc.FileName))
		return ""
	}
	path, err := m.d.Files.Download(ctx, doc.FileID, suffix)
	if err != nil {
		log.Error("download document", zap.String("file_id", doc.FileID), zap.Error(err))
		return ""
	}
	return m.d.Extractor.ExtractFile(path, doc.MimeType)
}

func (m *Machine) sendReport(ctx context.Context, log *zap.Logger, chatID int64, r resume.Resume) {
	if m.d.Reporter == nil {
		return
	}
	pdf, err := m.d.Reporter.Render(ctx, report.Data{VacancyID: r.VacancyID, Score: r.Score, Analysis: r.Analysis})
	if err != nil {
		log.Error("render report", zap.Error(err))
		return
	}
	name := fmt.Sprintf("report_%d.pdf", r.VacancyID)
	if err := m.d.Messenger.SendDocument(ctx, chatID, name, msgReportCaption, pdf); err != nil {
		log.Error("send report", zap.Error(err))
	}
}

func (m *Machine) export(ctx context.Context, log *zap.Logger, r resume.Resume) {
	if m.d.Exporter == nil {
		return
	}
	row := sheets.Row{VacancyID: r.VacancyID, ResumeText: r.Text, Score: r.Score, Analysis: r.Analysis}
	if err := m.d.Exporter.Append(ctx, row); err != nil {
		log.Error("export resume", zap.Error(err))
	}
}

func (m *Machine) finish(ctx context.Context, ev Event, s *session.Session) (State, error) {
	if !m.d.Gate.IsAuthorized(ctx, ev.UserID) {
		m.reply(ctx, ev.ChatID, msgDenyFinish)
		return StateIdle, nil
	}
	if !s.HasVacancy() {
		m.reply(ctx, ev.ChatID, msgNoVacancy)
		return StateIdle, nil
	}
	m.reply(ctx, ev.ChatID, msgShortlistHeader)
	top, err := m.d.Resumes.Shortlist(ctx, s.VacancyID)
	if err != nil {
		return s.State, fmt.Errorf("shortlist: %w", err)
	}
	if len(top) == 0 {
		m.reply(ctx, ev.ChatID, msgShortlistEmpty)
		return StateIdle, nil
	}
	for i, r := range top {
		m.reply(ctx, ev.ChatID, msgCandidate(i+1, r.Score, r.Analysis))
	}
	return StateIdle, nil
}

func (m *Machine) addUser(ctx context.Context, ev Event, s *session.Session) (State, error) {
	if !m.d.Gate.IsAuthorized(ctx, ev.UserID) {
		m.reply(ctx, ev.ChatID, msgDenyAddUser)
		return s.State, nil
	}
	if !m.d.Gate.IsAdmin(ctx, ev.UserID) {
		m.reply(ctx, ev.ChatID, msgAdminAddUser)
		return s.State, nil
	}
	if len(ev.Args) != 2 {
		m.reply(ctx, ev.ChatID, msgAddUserUsage)
		return s.State, nil
	}
	telegramID, err := strconv.ParseInt(strings.TrimSpace(ev.Args[0]), 10, 64)
	if err != nil || telegramID <= 0 {
		m.reply(ctx, ev.ChatID, msgAddUserUsage)
		return s.State, nil
	}
	role, err := auth.ParseRole(ev.Args[1])
	if err != nil {
		m.reply(ctx, ev.ChatID, msgInvalidRole)
		return s.State, nil
	}
	created, err := m.d.Users.AddUser(ctx, telegramID, role)
	if err != nil {
		return s.State, fmt.Errorf("add user: %w", err)
	}
	if !created {
		m.reply(ctx, ev.ChatID, msgUserExists(telegramID))
		return s.State, nil
	}
	m.log.Info("user added", zap.Int64("by", ev.UserID), zap.Int64("telegram_id", telegramID), zap.String("role", string(role)))
	m.reply(ctx, ev.ChatID, msgUserAdded(telegramID, string(role)))
	return s.State, nil
}

func (m *Machine) adminView(ctx context.Context, ev Event, s *session.Session) (State, error) {
	if !m.d.Gate.IsAuthorized(ctx, ev.UserID) {
		m.reply(ctx, ev.ChatID, msgDenyAdmin)
		return s.State, nil
	}
	if !m.d.Gate.IsAdmin(ctx, ev.UserID) {
		m.reply(ctx, ev.ChatID, msgAdminOnly)
		return s.State, nil
	}
	all, err := m.d.Resumes.ListAll(ctx)
	if err != nil {
		return s.State, fmt.Errorf("list resumes: %w", err)
	}
	if len(all) == 0 {
		m.reply(ctx, ev.ChatID, msgAdminEmpty)
		return s.State, nil
	}
	for _, r := range all {
		m.reply(ctx, ev.ChatID, msgAdminResume(r.VacancyID, r.Score, r.Analysis))
	}
	return s.State, nil
}

// fallback answers events no transition accepts with a hint for the current step.
func (m *Machine) fallback(ctx context.Context, ev Event, s *session.Session) (State, error) {
	if !m.d.Gate.IsAuthorized(ctx, ev.UserID) {
		m.reply(ctx, ev.ChatID, msgDenyStart)
		return s.State, nil
	}
	switch s.State {
	case StateVacancy:
		m.reply(ctx, ev.ChatID, msgVacancyReprompt)
	case StateResume:
		m.reply(ctx, ev.ChatID, msgNeedDocument)
	case StateProcessing:
		m.reply(ctx, ev.ChatID, msgProcessingHint)
	default:
		m.reply(ctx, ev.ChatID, msgIdleHint)
	}
	return s.State, nil
}
