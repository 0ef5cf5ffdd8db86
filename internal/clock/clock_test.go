package clock

import (
	"testing"
	"time"

	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

func TestFixed(t *testing.T) {
	c := NewFixed(time.Date(2023, 9, 5, 17, 30, 0, 0, time.UTC))
	if got := c.Today(); !got.Equal(utils.Date(2023, 9, 5)) {
		t.Errorf("Today() = %v, want 2023-09-05", got)
	}
}

func TestSystemUsesLocation(t *testing.T) {
	loc := time.FixedZone("east", 14*60*60)
	got := System{Location: loc}.Today()
	want := utils.DateOf(time.Now().In(loc))
	// на границе суток дата может смениться между двумя вызовами
	if d := utils.DaysBetween(want, got); d < 0 || d > 1 {
		t.Errorf("Today() = %v, want %v", got, want)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("Today() must be a calendar date, got %v", got)
	}
}
