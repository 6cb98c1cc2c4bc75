package httpapi

import (
	"net/http"

	"airportfm-service/internal/usecase"
	"airportfm-service/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Warning is attached to 2xx responses whose graph step failed. A degraded
// operation is never reported as a plain success: callers use this to
// decide whether to re-issue a reconciliation request.
type Warning struct {
	OperationID string `json:"operation_id"`
	FailedStep  string `json:"failed_step"`
	Risk        string `json:"risk"`
	Detail      string `json:"detail"`
}

func warningFromPartial(p *apperror.PartialFailure) *Warning {
	return &Warning{
		OperationID: p.OperationID,
		FailedStep:  p.Step,
		Risk:        p.Risk,
		Detail:      p.Error(),
	}
}

// statusForError maps the error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case apperror.IsNotFound(err):
		return http.StatusNotFound
	case apperror.IsDuplicate(err), apperror.IsValidation(err):
		return http.StatusBadRequest
	case apperror.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

// respondOutcome writes a coordinator outcome. Committed gets a bare body,
// degraded gets the body plus the warning, rejected maps to an error status.
func respondOutcome(c *gin.Context, successStatus int, outcome usecase.FlightOutcome, body gin.H) {
	switch {
	case outcome.Rejected():
		respondError(c, outcome.Err)
	case outcome.Degraded():
		if body == nil {
			body = gin.H{}
		}
		body["warning"] = warningFromPartial(outcome.Partial)
		c.JSON(successStatus, body)
	default:
		if body == nil {
			body = gin.H{}
		}
		c.JSON(successStatus, body)
	}
}
