package utils

import (
	"fmt"
	"time"
)

// brasiliaZone is a fixed UTC-3 offset. Brazil dropped daylight saving in
// 2019, so no tz database lookup is done; revisit before using this for
// another region.
var brasiliaZone = time.FixedZone("BRT", -3*60*60)

func BrasiliaZone() *time.Location { return brasiliaZone }

// BrasiliaNow is the clock used for audit rows and issuance dates.
func BrasiliaNow() time.Time {
	return ToBrasilia(time.Now())
}

func ToBrasilia(t time.Time) time.Time {
	return t.In(brasiliaZone)
}

var mesesPT = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatLongDatePT spells a date as "9 de janeiro de 2026".
func FormatLongDatePT(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), mesesPT[t.Month()-1], t.Year())
}
