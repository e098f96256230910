package functions

import (
	"context"
	"fmt"
	"strings"

	"github.com/m2tx/contentkit/content"
)

type WeatherArgs struct {
	Location string `json:"location" description:"A cidade, ex: São Paulo, SP"`
	Unit     string `json:"unit,omitempty" enum:"celsius,fahrenheit" description:"Unidade da temperatura"`
}

type Weather struct {
	Location    string `json:"location"`
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
}

// GetWeather returns canned weather for a location.
func GetWeather(ctx context.Context, args WeatherArgs) (Weather, error) {
	location := strings.TrimSpace(args.Location)
	if location == "" {
		return Weather{}, fmt.Errorf("get_weather: location is required")
	}

	temperature := "22°C"
	if args.Unit == "fahrenheit" {
		temperature = "72°F"
	}

	return Weather{
		Location:    location,
		Temperature: temperature,
		Condition:   "Ensolarado",
	}, nil
}

func WeatherDeclaration() (*content.CallableFunctionDeclaration, error) {
	return content.NewCallableFunctionDeclaration("get_weather", "Busca o clima atual de uma cidade", GetWeather)
}
