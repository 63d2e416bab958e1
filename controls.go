package main

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

const controlsHeight = 32

// controls is the clickable playback bar under the arena. Every button has a
// keyboard shortcut that calls the same Game method.
type controls struct {
	ui    *ebitenui.UI
	pause *widget.Button
	speed *widget.Label
}

func newControlsTheme(face *text.Face) *widget.Theme {
	return &widget.Theme{
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    image.NewNineSliceColor(color.RGBA{180, 180, 180, 255}),
				Hover:   image.NewNineSliceColor(color.RGBA{200, 200, 200, 255}),
				Pressed: image.NewNineSliceColor(color.RGBA{160, 160, 160, 255}),
			},
			TextFace: face,
			TextColor: &widget.ButtonTextColor{
				Idle: color.Black,
			},
		},
	}
}

func newControls(g *Game) (*controls, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("viewer: load font: %w", err)
	}
	var face text.Face = &text.GoTextFace{Source: src, Size: 13}
	theme := newControlsTheme(&face)

	c := &controls{ui: &ebitenui.UI{PrimaryTheme: theme}}

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, &face, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.TextPadding(widget.NewInsetsSimple(4)),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(64, 24)),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	bar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
			}),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
				widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(4)),
			),
		),
	)

	c.pause = button(pauseLabel(g.playback.Paused), g.togglePause)
	bar.AddChild(c.pause)
	bar.AddChild(button("Restart", g.restart))
	bar.AddChild(button("Slower", g.slower))
	bar.AddChild(button("Faster", g.faster))

	c.speed = widget.NewLabel(
		widget.LabelOpts.Text(speedLabel(g.playback.Speed), &face, &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	)
	bar.AddChild(c.speed)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(bar)
	c.ui.Container = root
	return c, nil
}

// sync refreshes the labels that mirror playback state.
func (c *controls) sync(paused bool, speed float64) {
	c.pause.SetText(pauseLabel(paused))
	c.speed.Label = speedLabel(speed)
}

func pauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}

func speedLabel(speed float64) string {
	return fmt.Sprintf("x%.3g", speed)
}
