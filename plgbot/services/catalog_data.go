package services

import "github.com/plgteam/plgbot/plgbot/database/models"

// Built-in catalog used when no spreadsheet source is available or the
// workbooks cannot be parsed. Task codes are assigned by position.

type catalogTask struct {
	Name string
	XP   int64
}

var defaultTasks = []catalogTask{
	{"Выход на подмену в свой выходной, чтобы помочь команде", 30},
	{"Тайный гость на 100% (идеальная проверка сервиса)", 25},
	{"Именной положительный отзыв от гостя", 20},
	{"Топ-продажи специальных блюд за месяц", 15},
	{"Самый высокий средний чек за месяц", 15},
	{"Обучение стажёра и помощь в сдаче аттестации", 10},
	{"Привёл друга на работу (рекомендация сотрудника)", 30},
	{"100% прохождение всех тестов на обучающей платформе", 10},
	{"Посещение всех обучающих тренингов (100% посещений)", 10},
}

var defaultLevels = []*models.Level{
	{Num: 1, Title: "Яйцечос", XPRequired: 50, Reward: "Ручка"},
	{Num: 2, Title: "Халдей", XPRequired: 100, Reward: "Блокнот"},
	{Num: 3, Title: "Блюдонос", XPRequired: 250, Reward: "Билеты в театр"},
	{Num: 4, Title: "Офик", XPRequired: 500, Reward: "Билеты на концерт"},
	{Num: 5, Title: "Старший-смотрящий", XPRequired: 800, Reward: "Ящик пива"},
	{Num: 6, Title: "Дед", XPRequired: 1000, Reward: "Значок"},
	{Num: 7, Title: "Маг-колдун", XPRequired: 1500, Reward: "Кепка"},
	{Num: 8, Title: "Гуру сервиса", XPRequired: 2000, Reward: "Футболка"},
	{Num: 9, Title: "Профик", XPRequired: 3000, Reward: "Толстовка"},
	{Num: 10, Title: "Супергерой", XPRequired: 5000, Reward: "10000"},
}
