package fine

import (
	"net/http"
	"reflect"

	"school/backend/foundation/web"
	"school/backend/internal/repository/postgres/fine"
	"school/backend/internal/service"
)

type Controller struct {
	fine Fine
}

func NewController(fine Fine) *Controller {
	return &Controller{fine}
}

func (uc Controller) ApplyPayment(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request fine.ApplyPaymentRequest
	if err := c.BindFunc(&request, "PaymentAmount"); err != nil {
		return c.RespondError(err)
	}

	request.FineID = id

	response, err := uc.fine.ApplyPayment(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":    response,
		"message": "Payment recorded successfully",
		"status":  true,
	}, http.StatusOK)
}

func (uc Controller) ClearStudent(c *web.Context) error {
	studentID := c.GetParam(reflect.Int, "student_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request fine.ClearStudentRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.StudentID = studentID

	response, err := uc.fine.ClearStudent(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":    response,
		"message": "All pending fines cleared successfully",
		"status":  true,
	}, http.StatusOK)
}

func (uc Controller) Sync(c *web.Context) error {
	var request fine.SyncRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.fine.Sync(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":    response,
		"message": "Fine sync completed",
		"status":  true,
	}, http.StatusOK)
}

func (uc Controller) GetClassFines(c *web.Context) error {
	classID := c.GetParam(reflect.Int, "class_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var status *string
	if s, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		status = s
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.fine.GetClassFines(c.Ctx, classID, status)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) ExportClassFinesExcel(c *web.Context) error {
	classID := c.GetParam(reflect.Int, "class_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var status *string
	if s, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		status = s
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.fine.GetClassFines(c.Ctx, classID, status)
	if err != nil {
		return c.RespondError(err)
	}

	buf, filename, err := service.ClassFinesExcel(response)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	return nil
}

func (uc Controller) GetStudentSummary(c *web.Context) error {
	studentID := c.GetParam(reflect.Int, "student_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var classID *int
	if id, ok := c.GetQueryFunc(reflect.Int, "class_id").(*int); ok {
		classID = id
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.fine.GetStudentSummary(c.Ctx, studentID, classID)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetPaymentHistory(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.fine.GetPaymentHistory(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) ExportReceiptPdf(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.fine.GetPaymentHistory(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	buf, filename, err := service.PaymentReceiptPdf(response)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	return nil
}
