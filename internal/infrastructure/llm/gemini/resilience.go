package gemini

import (
	"errors"
	"net"
	"net/http"

	"google.golang.org/genai"

	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/resilience"
)

func classifyGeminiError(err error) resilience.ErrorClassification {
	if class, ok := resilience.ClassifyCommon(err); ok {
		return class
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return resilience.Transient
		default:
			return resilience.CallerFault
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Transient
	}
	return resilience.Permanent
}
