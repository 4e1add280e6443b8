package news

import (
	"time"

	"ikit-news/internal/model"
)

// Krasnoyarsk is the portal's local time zone (UTC+7, no DST).
var Krasnoyarsk = time.FixedZone("KRAT", 7*60*60)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, Krasnoyarsk)
}

const cdn = "https://cdn.poehali.dev/projects/00fc5f79-eeb0-4d95-aead-d9a89c173069/files/"

const featuredBody = `Институт космических и информационных технологий объявляет о запуске современной лаборатории ИИ, оснащенной высокопроизводительными вычислительными системами для исследований в области машинного обучения и нейронных сетей.

Новая лаборатория оборудована 20 рабочими станциями с мощными графическими ускорителями NVIDIA A100, серверным кластером для обучения крупных языковых моделей и специализированным программным обеспечением для разработки ИИ-приложений.

В рамках открытия лаборатории запланированы:
• Мастер-классы по глубокому обучению от ведущих специалистов
• Хакатон по компьютерному зрению
• Серия лекций о применении ИИ в космической отрасли

Студенты и аспиранты ИКИТ получат доступ к современному оборудованию для выполнения курсовых работ, дипломных проектов и научных исследований. Планируется также сотрудничество с крупными IT-компаниями для реализации совместных проектов.

Официальное открытие лаборатории состоится 15 ноября 2025 года. Приглашаются все желающие!`

// FeaturedID is the article the detail page always shows.
const FeaturedID = "1"

func mockArticles() []model.Article {
	return []model.Article{
		{
			ID:            FeaturedID,
			Title:         "ИКИТ открывает новую лабораторию искусственного интеллекта",
			Body:          featuredBody,
			Excerpt:       "Институт космических и информационных технологий объявляет о запуске современной лаборатории ИИ, оснащенной высокопроизводительными вычислительными системами для...",
			Author:        "Иванов И.И.",
			Date:          day(2025, time.October, 26),
			Category:      "Наука",
			Image:         cdn + "dc15984e-2967-4028-818c-367118bf6f1d.jpg",
			CommentsCount: 12,
		},
		{
			ID:            "2",
			Title:         "Студенты ИКИТ заняли первое место на хакатоне",
			Excerpt:       "Команда из пяти студентов института одержала победу на международном хакатоне по разработке решений для умных городов. Проект включал...",
			Author:        "Петрова А.С.",
			Date:          day(2025, time.October, 25),
			Category:      "Достижения",
			Image:         cdn + "eff3f428-9aa2-4417-b1a3-617fe8cfd3f4.jpg",
			CommentsCount: 8,
		},
		{
			ID:            "3",
			Title:         "Расписание экзаменационной сессии 2025",
			Excerpt:       "Деканат ИКИТ публикует официальное расписание зимней экзаменационной сессии. Экзамены начнутся 15 января 2025 года. Студентам необходимо ознакомиться...",
			Author:        "Деканат ИКИТ",
			Date:          day(2025, time.October, 24),
			Category:      "Учеба",
			Image:         cdn + "f5a78b07-30b9-46c2-9e05-cbc0a47e3319.jpg",
			CommentsCount: 45,
		},
		{
			ID:            "4",
			Title:         "День открытых дверей: приглашаем абитуриентов",
			Excerpt:       "ИКИТ приглашает будущих студентов на день открытых дверей, который состоится 3 ноября. В программе: экскурсии по лабораториям, встречи...",
			Author:        "Приемная комиссия",
			Date:          day(2025, time.October, 23),
			Category:      "События",
			CommentsCount: 6,
		},
		{
			ID:            "5",
			Title:         "Новые гранты для научных исследований",
			Excerpt:       "Объявлен конкурс на получение грантов для студенческих научных проектов. Общий призовой фонд составляет 2 миллиона рублей. Заявки принимаются...",
			Author:        "Научный отдел",
			Date:          day(2025, time.October, 22),
			Category:      "Наука",
			CommentsCount: 15,
		},
	}
}

// seedComments are the replies every fresh thread starts with.
func seedComments() []model.Comment {
	return []model.Comment{
		model.NewComment("Петров А.В.", "Отличная новость! Очень рад за наш институт.",
			time.Date(2025, time.October, 26, 10, 30, 0, 0, Krasnoyarsk)),
		model.NewComment("Сидорова М.И.", "Когда можно будет посетить новую лабораторию?",
			time.Date(2025, time.October, 26, 11, 15, 0, 0, Krasnoyarsk)),
	}
}
