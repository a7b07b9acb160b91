package amadeus

// Wire shapes of the upstream API. Only the fields the pipeline reads are
// declared; everything else in the payload is dropped at decode time.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Property is one entry of the city-resolution response.
type Property struct {
	HotelID string `json:"hotelId"`
	Name    string `json:"name"`
}

type propertyListResponse struct {
	Data []Property `json:"data"`
}

// Record is one priced hotel-offer entry of the shopping response. The
// minimal pipeline variant produces Records with an empty Offers slice.
type Record struct {
	Hotel  RecordHotel `json:"hotel"`
	Offers []Offer     `json:"offers"`
}

type RecordHotel struct {
	HotelID  string `json:"hotelId"`
	Name     string `json:"name"`
	CityCode string `json:"cityCode"`
	Rating   string `json:"rating"`
}

type Offer struct {
	ID           string      `json:"id"`
	CheckInDate  string      `json:"checkInDate"`
	CheckOutDate string      `json:"checkOutDate"`
	Room         OfferRoom   `json:"room"`
	Price        OfferPrice  `json:"price"`
	Policies     OfferPolicy `json:"policies"`
}

type OfferRoom struct {
	TypeEstimated struct {
		Category string `json:"category"`
	} `json:"typeEstimated"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
}

type OfferPrice struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
}

type OfferPolicy struct {
	PaymentType string `json:"paymentType"`
}

type offerListResponse struct {
	Data []Record `json:"data"`
}

type errorEnvelope struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func (e errorEnvelope) detail() string {
	if len(e.Errors) > 0 && e.Errors[0].Detail != "" {
		return e.Errors[0].Detail
	}
	return ""
}
