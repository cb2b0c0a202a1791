package get_space_bookings

import (
	"strconv"
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/internal/service/bookings/models"
)

// ToServiceRequest собирает запрос к сервису из path и query параметров
// startDate и endDate задают период (включительно); одинаковые значения - один день
func ToServiceRequest(spaceID, userID int64, startDateStr, endDateStr, statusStr, includeInactiveStr string) (*models.GetSpaceBookingsRequest, error) {
	req := &models.GetSpaceBookingsRequest{
		SpaceID: spaceID,
		UserID:  userID,
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
