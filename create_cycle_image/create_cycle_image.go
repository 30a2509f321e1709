// This defines a basic executable for drawing a generated Hamiltonian cycle,
// which is useful for checking what the autopilot will follow.
package main

import (
	"flag"
	"fmt"
	"github.com/yalue/image_utils"
	"github.com/yalue/snakebot"
	"image"
	"image/color"
	"image/png"
	"os"
)

// The width and height of each grid cell in the output image, in pixels.
const cellPixels = 24

// Half the thickness of the line drawn along the cycle.
const lineHalfWidth = 2

const arrowLength = 16

// Implements the image.Image interface, drawing the cycle as a line through
// the center of every cell. The line shifts from blue to red as the tour
// numbers increase.
type cycleImage struct {
	cycle *snakebot.HamiltonianCycle
	grid  snakebot.Grid
}

func (c *cycleImage) ColorModel() color.Model {
	return color.RGBAModel
}

func (c *cycleImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.grid.Width*cellPixels, c.grid.Height*cellPixels)
}

// Returns true if the pixel at offset (x, y) within a cell lies on the half
// of the line running from the cell's center towards its neighbor in d.
func onLineTowards(x, y int, d snakebot.Direction) bool {
	center := cellPixels / 2
	nearX := (x >= center-lineHalfWidth) && (x <= center+lineHalfWidth)
	nearY := (y >= center-lineHalfWidth) && (y <= center+lineHalfWidth)
	switch d {
	case snakebot.Up:
		return nearX && (y <= center+lineHalfWidth)
	case snakebot.Down:
		return nearX && (y >= center-lineHalfWidth)
	case snakebot.Left:
		return nearY && (x <= center+lineHalfWidth)
	case snakebot.Right:
		return nearY && (x >= center-lineHalfWidth)
	}
	return false
}

func (c *cycleImage) lineColor(number int) color.Color {
	scale := uint8((number * 255) / c.cycle.Len())
	return color.RGBA{scale, 60, 255 - scale, 255}
}

func (c *cycleImage) At(x, y int) color.Color {
	if !image.Pt(x, y).In(c.Bounds()) {
		return color.Transparent
	}
	p := snakebot.Point{X: x / cellPixels, Y: y / cellPixels}
	offsetX := x % cellPixels
	offsetY := y % cellPixels
	if (offsetX == 0) || (offsetY == 0) {
		return color.Gray{220}
	}
	number, _ := c.cycle.TourNumber(p)
	neighbors := [2]snakebot.Point{c.cycle.At(number - 1),
		c.cycle.At(number + 1)}
	for _, n := range neighbors {
		d, ok := snakebot.DirectionBetween(p, n)
		if ok && onLineTowards(offsetX, offsetY, d) {
			return c.lineColor(number)
		}
	}
	return color.White
}

func getArrowForDirection(d snakebot.Direction,
	arrowColor color.Color) image.Image {
	switch d {
	case snakebot.Up:
		return image_utils.UpArrow(arrowColor)
	case snakebot.Down:
		return image_utils.DownArrow(arrowColor)
	case snakebot.Left:
		return image_utils.LeftArrow(arrowColor)
	}
	return image_utils.RightArrow(arrowColor)
}

// Returns a square arrow image pointing in d, with a white inner arrow.
func getOutlinedArrow(d snakebot.Direction, arrowColor color.Color) image.Image {
	outerArrow := image_utils.ResizeImage(getArrowForDirection(d, arrowColor),
		arrowLength, arrowLength)
	innerArrow := image_utils.ResizeImage(getArrowForDirection(d, color.White),
		arrowLength/2, arrowLength/2)
	toReturn := image_utils.NewCompositeImage()
	toReturn.AddImage(outerArrow, image.Pt(0, 0))
	toReturn.AddImage(innerArrow, image.Pt(arrowLength/4, arrowLength/4))
	return image_utils.ToRGBA(toReturn)
}

// Rasterizes the cycle, and adds an arrow on the cell with tour number 0
// pointing the way the cycle leaves it.
func drawCycle(h *snakebot.HamiltonianCycle) (*image.RGBA, error) {
	decorated := image_utils.NewCompositeImage()
	base := image_utils.ToRGBA(&cycleImage{
		cycle: h,
		grid:  h.Grid(),
	})
	e := decorated.AddImage(base, image.Pt(0, 0))
	if e != nil {
		return nil, fmt.Errorf("Error setting base cycle image: %w", e)
	}
	start := h.At(0)
	d, ok := snakebot.DirectionBetween(start, h.At(1))
	if !ok {
		return nil, fmt.Errorf("Tour numbers 0 and 1 aren't adjacent")
	}
	greenColor := color.RGBA{40, 180, 70, 255}
	arrowPos := image.Pt(start.X*cellPixels+(cellPixels-arrowLength)/2,
		start.Y*cellPixels+(cellPixels-arrowLength)/2)
	e = decorated.AddImage(getOutlinedArrow(d, greenColor), arrowPos)
	if e != nil {
		return nil, fmt.Errorf("Error adding start arrow: %w", e)
	}
	return image_utils.ToRGBA(decorated), nil
}

func run() int {
	var size int
	var randomSeed int64
	var outFilename string
	flag.IntVar(&size, "size", 20,
		"The width and height of the grid, in cells. Must be even.")
	flag.Int64Var(&randomSeed, "random_seed", -1,
		"If positive, specifies the random seed to use.")
	flag.StringVar(&outFilename, "output_file", "",
		"The name of the .png file to which the cycle will be saved.")
	flag.Parse()
	if outFilename == "" {
		fmt.Println("Invalid or missing argument.")
		fmt.Println("Run with -help for more information.")
		return 1
	}
	h, e := snakebot.Generate(size, size, snakebot.NewSeededSource(randomSeed))
	if e != nil {
		fmt.Printf("Failed generating cycle: %s\n", e)
		return 1
	}
	fmt.Printf("Generated a %d-cell cycle OK.\n", h.Len())
	finalPic, e := drawCycle(h)
	if e != nil {
		fmt.Printf("Error drawing cycle: %s\n", e)
		return 1
	}
	f, e := os.Create(outFilename)
	if e != nil {
		fmt.Printf("Error creating output file %s: %s\n", outFilename, e)
		return 1
	}
	defer f.Close()
	e = png.Encode(f, finalPic)
	if e != nil {
		fmt.Printf("Error writing image to %s: %s\n", outFilename, e)
		return 1
	}
	fmt.Printf("Image %s written OK.\n", outFilename)
	return 0
}

func main() {
	os.Exit(run())
}
