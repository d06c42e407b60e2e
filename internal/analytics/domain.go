package analytics

// DailyPoint is one (date, value) bucket of a daily series. Day is the date
// component of the sale timestamp, formatted YYYY-MM-DD.
type DailyPoint struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// ProductSales ranks a product by units sold across all recorded sales.
type ProductSales struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Units     int64  `json:"units"`
}

// Dashboard bundles every analytics view for a single chart-oriented page.
type Dashboard struct {
	NetProfit   float64        `json:"net_profit"`
	DailyProfit []DailyPoint   `json:"daily_profit"`
	DailySales  []DailyPoint   `json:"daily_sales"`
	TopProducts []ProductSales `json:"top_products"`
}
