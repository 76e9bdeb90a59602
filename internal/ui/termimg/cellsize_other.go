//go:build !unix

package termimg

func cellSize() (cellW, cellH int) {
	return defaultCellW, defaultCellH
}
