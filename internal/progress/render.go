package progress

import (
	"fmt"
	"strings"
)

// DefaultBarWidth is the number of cells in the progress bar.
const DefaultBarWidth = 40

// Frames is the cyclic animation shown while the benchmark runs.
var Frames = []string{
	"[      ]", "[*     ]", "[**    ]", "[***   ]", "[****  ]", "[***** ]", "[******]",
	"[ **** ]", "[  **  ]", "[      ]", "[  **  ]", "[ **** ]", "[******]",
	"[***** ]", "[****  ]", "[***   ]", "[**    ]", "[*     ]", "[      ]",
	"[     *]", "[    **]", "[   ***]", "[  ****]", "[ *****]", "[******]",
	"[ **** ]", "[  **  ]", "[      ]", "[  **  ]", "[ **** ]", "[******]",
	"[***** ]", "[****  ]", "[***   ]", "[**    ]", "[*     ]", "[      ]",
}

// RenderBar draws a fixed-width bar for done out of total, e.g.
// "Progress: |████------| 40.0% Complete". A zero total renders as empty.
func RenderBar(done, total int64, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	var ratio float64
	if total > 0 {
		ratio = float64(done) / float64(total)
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := 0
	if total > 0 {
		filled = int(int64(width) * done / total)
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("-", width-filled)
	return fmt.Sprintf("Progress: |%s| %.1f%% Complete", bar, 100*ratio)
}
