package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shiftsolve/shiftsolve/internal/ingest"
)

// ValidateInput checks a schedule request body for the structural
// problems that would otherwise surface as an opaque solver error:
// missing people/shifts and duplicate ids.
func (h *Handler) ValidateInput(c *gin.Context) {
	var input ingest.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}

	if len(input.People) == 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "at least one person is required"})
		return
	}
	if len(input.Shifts) == 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "at least one shift is required"})
		return
	}

	seenPeople := make(map[string]bool, len(input.People))
	for _, p := range input.People {
		if seenPeople[p.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "duplicate person id: " + p.ID})
			return
		}
		seenPeople[p.ID] = true
	}

	seenShifts := make(map[string]bool, len(input.Shifts))
	for _, s := range input.Shifts {
		if seenShifts[s.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "duplicate shift id: " + s.ID})
			return
		}
		seenShifts[s.ID] = true
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"person_count": len(input.People),
			"shift_count":  len(input.Shifts),
		},
	})
}
