package restapi

import (
	"encoding/json"
	"time"

	"github.com/example/outpass/internal/ports/secondary"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type wireStudent struct {
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	RoomNumber string `json:"roomNumber"`
}

type wireOutpass struct {
	ID                  string       `json:"id"`
	MongoID             string       `json:"_id"`
	Status              string       `json:"status"`
	Student             *wireStudent `json:"student"`
	Destination         string       `json:"destination"`
	Purpose             string       `json:"purpose"`
	LeaveStartDate      time.Time    `json:"leaveStartDate"`
	ExpectedReturnDate  time.Time    `json:"expectedReturnDate"`
	ActualDepartureTime *time.Time   `json:"actualDepartureTime"`
	ActualReturnTime    *time.Time   `json:"actualReturnTime"`
	LateReturnReason    string       `json:"lateReturnReason"`
}

type wireActivity struct {
	Departures      []wireOutpass `json:"departures"`
	Returns         []wireOutpass `json:"returns"`
	ExpectedReturns []wireOutpass `json:"expectedReturns"`
}

type departureBody struct {
	Comments string `json:"comments"`
}

type returnBody struct {
	Comments         string `json:"comments"`
	LateReturnReason string `json:"lateReturnReason,omitempty"`
}

func (w wireOutpass) toRecord() *secondary.OutpassRecord {
	r := &secondary.OutpassRecord{
		ID:                  w.ID,
		Status:              w.Status,
		Destination:         w.Destination,
		Purpose:             w.Purpose,
		LeaveStartDate:      w.LeaveStartDate,
		ExpectedReturnDate:  w.ExpectedReturnDate,
		ActualDepartureTime: w.ActualDepartureTime,
		ActualReturnTime:    w.ActualReturnTime,
		LateReturnReason:    w.LateReturnReason,
	}
	if r.ID == "" {
		r.ID = w.MongoID
	}
	if w.Student != nil {
		r.StudentName = w.Student.Name
		r.RollNumber = w.Student.RollNumber
		r.RoomNumber = w.Student.RoomNumber
	}
	return r
}

func toRecords(ws []wireOutpass) []*secondary.OutpassRecord {
	records := make([]*secondary.OutpassRecord, len(ws))
	for i, w := range ws {
		records[i] = w.toRecord()
	}
	return records
}
