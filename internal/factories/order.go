package factories

import (
	"math/rand"
	"sort"
	"time"

	"github.com/chrisdamba/foodmatch/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

var dishesByCuisine = map[string][]string{
	"Pizza":    {"Margherita", "Pepperoni", "Hawaiian", "Veggie Supreme"},
	"Curry":    {"Chicken Tikka Masala", "Vegetable Curry", "Beef Madras", "Paneer Butter Masala"},
	"Burgers":  {"Classic Cheeseburger", "Veggie Burger", "BBQ Bacon Burger", "Mushroom Swiss Burger"},
	"Salad":    {"Caesar Salad", "Greek Salad", "Cobb Salad", "Quinoa Salad"},
	"Japanese": {"Sushi Roll", "Ramen", "Tempura", "Miso Soup"},
	"Mexican":  {"Tacos", "Burrito", "Guacamole", "Quesadilla"},
	"Chinese":  {"Kung Pao Chicken", "Fried Rice", "Dumplings", "Mapo Tofu"},
	"Thai":     {"Pad Thai", "Green Curry", "Tom Yum Soup", "Mango Sticky Rice"},
}

var cuisines = func() []string {
	names := make([]string, 0, len(dishesByCuisine))
	for name := range dishesByCuisine {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// OrderFactory generates order records with whole-second prep times in
// [MinPrepTime, MaxPrepTime].
type OrderFactory struct {
	fake        faker.Faker
	MinPrepTime int
	MaxPrepTime int
}

// NewOrderFactory seeds the generator; seed 0 uses the current time.
func NewOrderFactory(seed int64, minPrepTime, maxPrepTime int) *OrderFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if maxPrepTime < minPrepTime {
		minPrepTime, maxPrepTime = maxPrepTime, minPrepTime
	}
	return &OrderFactory{
		fake:        faker.NewWithSeed(rand.NewSource(seed)),
		MinPrepTime: minPrepTime,
		MaxPrepTime: maxPrepTime,
	}
}

func (of *OrderFactory) CreateOrderRecord() models.OrderRecord {
	return models.OrderRecord{
		ID:         cuid.New(),
		Name:       of.dishName(),
		FulfilTime: float64(of.fake.IntBetween(of.MinPrepTime, of.MaxPrepTime)),
	}
}

func (of *OrderFactory) CreateOrderRecords(count int) []models.OrderRecord {
	records := make([]models.OrderRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, of.CreateOrderRecord())
	}
	return records
}

func (of *OrderFactory) dishName() string {
	cuisine := of.fake.RandomStringElement(cuisines)
	return of.fake.RandomStringElement(dishesByCuisine[cuisine])
}
