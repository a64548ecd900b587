package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"khaatabook/internal/core"
)

// Calendar image layout.
const (
	CalendarWidth  = 500
	CalendarHeight = 500
	calendarMargin = 10
	titleTop       = 10
	firstLineTop   = 40
	lineHeight     = 15
)

var (
	inkTitle    = color.Black
	inkExpenses = color.RGBA{B: 0xff, A: 0xff}
	inkEmpty    = color.Black
)

// DrawCalendar renders the month as a title line followed by one line per
// day slot. All 31 slots are drawn whatever the month's length.
func DrawCalendar(cal core.MonthCalendar) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, CalendarWidth, CalendarHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawText(img, calendarMargin, titleTop, cal.Title(), inkTitle)
	for i, day := range cal.Days {
		top := firstLineTop + i*lineHeight
		if day.HasExpenses {
			drawText(img, calendarMargin, top, fmt.Sprintf("%d: %s", day.Day, core.FormatMoney(day.Total)), inkExpenses)
			continue
		}
		drawText(img, calendarMargin, top, fmt.Sprintf("%d: No expenses", day.Day), inkEmpty)
	}
	return img
}

// WriteCalendar encodes the rendered calendar as PNG.
func WriteCalendar(w io.Writer, cal core.MonthCalendar) error {
	if err := png.Encode(w, DrawCalendar(cal)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// RenderCalendarImage writes the calendar PNG to dest.
func RenderCalendarImage(cal core.MonthCalendar, dest string) error {
	if cal.Records == 0 {
		return noExpenses(FormatCalendarPNG, dest)
	}
	return writeFile(FormatCalendarPNG, dest, func(w io.Writer) error {
		return WriteCalendar(w, cal)
	})
}

// drawText draws s with its top edge at y.
func drawText(dst draw.Image, x, y int, s string, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
