package attendance

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"school/backend/foundation/web"
	"school/backend/internal/repository/postgres/attendance"
	"school/backend/internal/service"

	"github.com/Azure/go-autorest/autorest/date"
)

type Controller struct {
	attendance Attendance
}

func NewController(attendance Attendance) *Controller {
	return &Controller{attendance}
}

func (uc Controller) Mark(c *web.Context) error {
	var request attendance.MarkOneRequest
	if err := c.BindFunc(&request, "ClassID", "StudentID", "Date", "Status"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.MarkOne(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	status := http.StatusOK
	message := "Attendance updated successfully"
	if response.Created {
		status = http.StatusCreated
		message = "Attendance marked successfully"
	}

	return c.Respond(map[string]interface{}{
		"data":    response.Attendance,
		"message": message,
		"status":  true,
	}, status)
}

func (uc Controller) MarkBulk(c *web.Context) error {
	var request attendance.MarkBulkRequest
	if err := c.BindFunc(&request, "ClassID", "Date", "Records"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.MarkBulk(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetClassList(c *web.Context) error {
	classID := c.GetParam(reflect.Int, "class_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	day := time.Now().UTC()
	if dateStr, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok && dateStr != nil {
		parsed, err := date.ParseDate(*dateStr)
		if err != nil {
			return c.RespondError(web.NewRequestError(errors.New("invalid date format"), http.StatusBadRequest))
		}
		day = parsed.Time
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.GetClassList(c.Ctx, classID, day)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetStudentHistory(c *web.Context) error {
	studentID := c.GetParam(reflect.Int, "student_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var filter attendance.HistoryFilter
	if classID, ok := c.GetQueryFunc(reflect.Int, "class_id").(*int); ok {
		filter.ClassID = classID
	}
	if startStr, ok := c.GetQueryFunc(reflect.String, "start_date").(*string); ok && startStr != nil {
		parsed, err := date.ParseDate(*startStr)
		if err != nil {
			return c.RespondError(web.NewRequestError(errors.New("invalid start_date format"), http.StatusBadRequest))
		}
		filter.StartDate = &parsed
	}
	if endStr, ok := c.GetQueryFunc(reflect.String, "end_date").(*string); ok && endStr != nil {
		parsed, err := date.ParseDate(*endStr)
		if err != nil {
			return c.RespondError(web.NewRequestError(errors.New("invalid end_date format"), http.StatusBadRequest))
		}
		filter.EndDate = &parsed
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.GetStudentHistory(c.Ctx, studentID, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetReport(c *web.Context) error {
	classID := c.GetParam(reflect.Int, "class_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	now := time.Now().UTC()
	month, year := int(now.Month()), now.Year()

	if m, ok := c.GetQueryFunc(reflect.Int, "month").(*int); ok && m != nil {
		month = *m
	}
	if y, ok := c.GetQueryFunc(reflect.Int, "year").(*int); ok && y != nil {
		year = *y
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.GetReport(c.Ctx, classID, month, year)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) ExportReportExcel(c *web.Context) error {
	classID := c.GetParam(reflect.Int, "class_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	now := time.Now().UTC()
	month, year := int(now.Month()), now.Year()

	if m, ok := c.GetQueryFunc(reflect.Int, "month").(*int); ok && m != nil {
		month = *m
	}
	if y, ok := c.GetQueryFunc(reflect.Int, "year").(*int); ok && y != nil {
		year = *y
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	report, err := uc.attendance.GetReport(c.Ctx, classID, month, year)
	if err != nil {
		return c.RespondError(err)
	}

	buf, filename, err := service.AttendanceReportExcel(report)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	return nil
}

func (uc Controller) UpdateAll(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request attendance.UpdateRequest

	if err := c.BindFunc(&request, "Status"); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	response, err := uc.attendance.UpdateAll(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request attendance.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	response, err := uc.attendance.UpdateColumns(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.attendance.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}
