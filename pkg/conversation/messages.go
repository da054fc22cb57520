package conversation

import "fmt"

// Replies sent to the recruiter. Kept together so the tone stays consistent.
const (
	msgGreeting = "🌟 Привет, герой подбора! Я твой AI-рекрутер! Готов помочь найти звезду для твоей команды! Нажми /add_vacancy, чтобы начать! ✨"

	msgDenyStart    = "⛔ Ой-ой! Доступ запрещён! Обратитесь к администратору для добавления вас в команду! 📞"
	msgDenyVacancy  = "⛔ Доступ только для HR и работодателей! 😄"
	msgDenySave     = "⛔ Доступ запрещён! 😞"
	msgDenyResume   = "⛔ Только для своих! 😄"
	msgDenyFinish   = "⛔ Доступ только для своих! 😄"
	msgDenyAddUser  = "⛔ Только админ может добавлять новых героев! 😄"
	msgAdminAddUser = "⛔ Только админ может добавлять пользователей! 👮‍♂️"
	msgDenyAdmin    = "⛔ Только админ может заглянуть за кулисы! 😄"
	msgAdminOnly    = "⛔ Только админ имеет доступ! 👮‍♂️"

	msgVacancyPrompt   = "🌟 Введи вакансию в формате: Должность, Требования, Зарплата (например, 'Программист, Python, 120к')! ✨"
	msgVacancyReprompt = "⚠️ Введи вакансию в формате: Должность, Требования, Зарплата! 😄"
	msgVacancySaved    = "🎉 Вакансия сохранена! Загрузи резюме (PDF/DOCX) и давай найдём звезду! 🌟"

	msgNeedDocument     = "⚠️ Пожалуйста, загрузи файл PDF или DOCX! 😄"
	msgExtractionFailed = "⚠️ Не удалось извлечь текст из файла! Попробуй другой файл! 😄"
	msgNoVacancy        = "⚠️ Вакансия не найдена! Начни заново с /add_vacancy! 😄"
	msgProcessingHint   = "🤔 Хочешь загрузить ещё? (/add_resume) Или завершить? (/finish) 🚀"
	msgIdleHint         = "🤔 Не понимаю эту команду! Нажми /add_vacancy, чтобы начать! ✨"

	msgShortlistHeader = "🎉 Поиск завершён! Вот топ-3 кандидатов, готовых сиять в твоей команде! 🌟"
	msgShortlistEmpty  = "📭 Пока нет резюме для этой вакансии! Загрузи ещё! 😄"
	msgAdminEmpty      = "📭 Пока нет резюме для просмотра! Добавь вакансии и резюме! 🌟"
	msgReportCaption   = "📋 Вот твой отчёт! 🌟"

	msgAddUserUsage = "⚠️ Используй: /add_user <telegram_id> <role> (HR, Employer, Admin)! 📝"
	msgInvalidRole  = "⚠️ Роль должна быть HR, Employer или Admin! 😄"
)

const excerptRunes = 100

func msgResumeScored(score float64, analysis string) string {
	return fmt.Sprintf("🎉 Резюме обработано! Оценка: %.1f, Анализ: %s...\n"+
		"Хочешь загрузить ещё? (/add_resume) Или завершить? (/finish) 🚀", score, excerpt(analysis, excerptRunes))
}

func msgCandidate(place int, score float64, analysis string) string {
	return fmt.Sprintf("🏆 Кандидат %d:\nОценка: %.1f ⭐\nАнализ: %s...", place, score, excerpt(analysis, excerptRunes))
}

func msgAdminResume(vacancyID int64, score float64, analysis string) string {
	return fmt.Sprintf("🌟 Вакансия #%d: Оценка %.1f, Анализ: %s...", vacancyID, score, excerpt(analysis, excerptRunes))
}

func msgUserAdded(telegramID int64, role string) string {
	return fmt.Sprintf("🎉 Новый герой %d с ролью %s добавлен в команду! 🚀", telegramID, role)
}

func msgUserExists(telegramID int64) string {
	return fmt.Sprintf("ℹ️ Герой %d уже в команде, роль не изменена! 😄", telegramID)
}

// excerpt returns the first n runes of s.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
