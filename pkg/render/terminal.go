package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints the image into area using half-block cells, so the image
// height should be twice the number of terminal rows.
func (img *Image) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each cell is ▀ with fg=top pixel and bg=bottom pixel
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		if topY >= img.Height {
			break
		}
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= img.Width {
				break
			}
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: RGBA8(img.At(x, topY)),
				},
			}
			if botY < img.Height {
				cell.Style.Bg = RGBA8(img.At(x, botY))
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// TerminalSize returns the image size needed to fill cols x rows cells.
func TerminalSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}
