package clock

import (
	"time"

	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

// Clock источник текущей календарной даты
type Clock interface {
	Today() time.Time
}

// System возвращает дату по системным часам в заданной зоне
type System struct {
	Location *time.Location
}

// Today возвращает сегодняшнюю дату
func (s System) Today() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return utils.DateOf(time.Now().In(loc))
}

// Fixed всегда возвращает одну и ту же дату
type Fixed struct {
	Date time.Time
}

// NewFixed создает часы, остановленные на указанной дате
func NewFixed(date time.Time) Fixed {
	return Fixed{Date: utils.DateOf(date)}
}

// Today возвращает зафиксированную дату
func (f Fixed) Today() time.Time {
	return f.Date
}
