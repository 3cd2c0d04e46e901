package dashboard

import (
	"net/http"

	"school/backend/foundation/web"
)

type Controller struct {
	dashboard Dashboard
}

func NewController(dashboard Dashboard) *Controller {
	return &Controller{dashboard}
}

func (uc Controller) GetTodaySummary(c *web.Context) error {
	response, err := uc.dashboard.GetTodaySummary(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}
