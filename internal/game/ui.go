package game

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/iburimskiy/cartoongen/internal/config"
)

const (
	labelGenerate = "Generate"
	labelLoading  = "Generating…"
	labelDownload = "Download Image"
	labelCopy     = "Copy to Clipboard"
	labelAnother  = "Generate Another"
	promptTitle   = "Enter Your Prompt"
	promptHint    = "Describe your cartoon…"
	promptExample = `Example: "round glasses, green hair, smiling"`
)

var (
	cardColor      = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xe6}
	inkColor       = color.NRGBA{R: 0x22, G: 0x22, B: 0x2e, A: 0xff}
	hintColor      = color.NRGBA{R: 0x6b, G: 0x6b, B: 0x80, A: 0xff}
	inputColor     = color.NRGBA{R: 0xf2, G: 0xf2, B: 0xf7, A: 0xff}
	accentColor    = color.NRGBA{R: 0x8e, G: 0x44, B: 0xad, A: 0xff}
	accentHover    = color.NRGBA{R: 0x9b, G: 0x59, B: 0xb6, A: 0xff}
	accentPressed  = color.NRGBA{R: 0x6c, G: 0x34, B: 0x83, A: 0xff}
	neutralColor   = color.NRGBA{R: 0x34, G: 0x49, B: 0x5e, A: 0xff}
	neutralHover   = color.NRGBA{R: 0x41, G: 0x5b, B: 0x76, A: 0xff}
	neutralPressed = color.NRGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}
)

// formHandlers are the actions the card forwards to the game.
type formHandlers struct {
	Prompt   func(s string)
	Generate func()
	Download func()
	Copy     func()
	Another  func()
}

// formView is the centered card: either the prompt panel or the result panel.
type formView struct {
	ui   *ebitenui.UI
	card *widget.Container

	promptPanel *widget.Container
	resultPanel *widget.Container
	input       *widget.TextInput
	generate    *widget.Button
	graphic     *widget.Graphic

	showingResult bool
	loading       bool
}

func newFormView(face, titleFace *text.Face, h formHandlers) *formView {
	v := &formView{}

	accent := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(accentColor),
		Hover:   imageui.NewNineSliceColor(accentHover),
		Pressed: imageui.NewNineSliceColor(accentPressed),
	}
	neutral := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(neutralColor),
		Hover:   imageui.NewNineSliceColor(neutralHover),
		Pressed: imageui.NewNineSliceColor(neutralPressed),
	}
	btnText := &widget.ButtonTextColor{Idle: color.White}
	btnPadding := &widget.Insets{Top: 10, Bottom: 10, Left: 16, Right: 16}
	stretch := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	button := func(label string, img *widget.ButtonImage, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(img),
			widget.ButtonOpts.Text(label, face, btnText),
			widget.ButtonOpts.TextPadding(btnPadding),
			widget.ButtonOpts.WidgetOpts(stretch),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				if onClick != nil {
					onClick()
				}
			}),
		)
	}
	panel := func() *widget.Container {
		return widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(12),
			)),
			widget.ContainerOpts.WidgetOpts(stretch),
		)
	}

	v.input = widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(stretch),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     imageui.NewNineSliceColor(inputColor),
			Disabled: imageui.NewNineSliceColor(inputColor),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          inkColor,
			Disabled:      hintColor,
			Caret:         accentColor,
			DisabledCaret: hintColor,
		}),
		widget.TextInputOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 12, Right: 12}),
		widget.TextInputOpts.Face(face),
		widget.TextInputOpts.Placeholder(promptHint),
		widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
			if h.Prompt != nil {
				h.Prompt(args.InputText)
			}
		}),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			if h.Prompt != nil {
				h.Prompt(args.InputText)
			}
			if h.Generate != nil {
				h.Generate()
			}
		}),
	)
	v.generate = button(labelGenerate, accent, h.Generate)

	v.promptPanel = panel()
	v.promptPanel.AddChild(
		widget.NewText(
			widget.TextOpts.Text(promptTitle, titleFace, inkColor),
			widget.TextOpts.WidgetOpts(center),
		),
		v.input,
		widget.NewText(
			widget.TextOpts.Text(promptExample, face, hintColor),
			widget.TextOpts.WidgetOpts(center),
		),
		v.generate,
	)

	// Graphic needs an image up front; it is replaced on every result.
	v.graphic = widget.NewGraphic(
		widget.GraphicOpts.Image(ebiten.NewImage(1, 1)),
		widget.GraphicOpts.WidgetOpts(center),
	)
	v.resultPanel = panel()
	v.resultPanel.AddChild(
		v.graphic,
		button(labelDownload, accent, h.Download),
		button(labelCopy, neutral, h.Copy),
		button(labelAnother, neutral, h.Another),
	)

	v.card = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(cardColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&widget.Insets{
				Top: config.CardPadding, Bottom: config.CardPadding,
				Left: config.CardPadding, Right: config.CardPadding,
			}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(config.CardWidth, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
	v.card.AddChild(v.promptPanel)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(v.card)
	v.ui = &ebitenui.UI{Container: root}
	return v
}

// setLoading swaps the generate label while a request is in flight.
func (v *formView) setLoading(loading bool) {
	if loading == v.loading {
		return
	}
	v.loading = loading
	if loading {
		v.generate.SetText(labelLoading)
	} else {
		v.generate.SetText(labelGenerate)
	}
}

func (v *formView) showResult(img *ebiten.Image) {
	v.graphic.Image = img
	v.card.RemoveChildren()
	v.card.AddChild(v.resultPanel)
	v.showingResult = true
}

func (v *formView) showPrompt() {
	if !v.showingResult {
		return
	}
	v.card.RemoveChildren()
	v.card.AddChild(v.promptPanel)
	v.showingResult = false
}

// covers reports whether the card is drawn over screen position (x, y).
func (v *formView) covers(x, y int) bool {
	r := v.card.GetWidget().Rect
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}
