package phrases

// staticCatalog holds the stock phrases that ship with the game. They count
// toward global uniqueness, so custom generation can never reissue one.
var staticCatalog = []string{
	"Pizza Delivery",
	"Ice Cream Truck",
	"Taco Tuesday",
	"Food Truck",
	"Sushi Roll",
	"Harry Potter",
	"Star Wars",
	"The Lion King",
	"Jurassic Park",
	"Titanic",
	"Super Bowl",
	"Home Run",
	"Slam Dunk",
	"Hat Trick",
	"World Cup",
	"Taylor Swift",
	"Air Guitar",
	"Karaoke Night",
	"Rock Band",
	"Music Festival",
	"Eiffel Tower",
	"Grand Canyon",
	"Times Square",
	"Great Wall of China",
	"Niagara Falls",
	"Polar Bear",
	"Golden Retriever",
	"Bald Eagle",
	"Great White Shark",
	"Penguin Waddle",
	"Selfie Stick",
	"Road Trip",
	"Birthday Party",
	"Rollercoaster",
	"Beach Vacation",
	"Video Game",
	"Board Game Night",
	"Coffee Maker",
	"Microwave Popcorn",
	"Bubble Wrap",
}
