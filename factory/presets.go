/*
presets.go - Built-in calendar definitions

PURPOSE:
  Ships ready-made calendar JSON so a fresh install has something to
  load and the API can offer starting points. Presets go through the
  same ParseCalendar path as imported data - they are fixtures, not a
  separate code path.

PRESETS:
  gregorian: Earth's civil calendar with a synodic moon, four seasons,
             and latitude daylight. FirstWeekday 6 makes year 0 start
             on a Saturday, matching the proleptic Gregorian calendar
             with internal year 0 displayed as 1 BCE via yearZero.
  harptos:   A 12x30-day fantasy year with five intercalary festivals
             (plus a leap-year-only sixth), two moons, and a simple
             every-4th-year leap rule.

SEE ALSO:
  - calendar.go: The parser these definitions feed
  - api/handlers.go: Exposes presets for loading
*/
package factory

// Preset pairs a preset identifier with its calendar JSON.
type Preset struct {
	ID          string
	Description string
	JSON        string
}

// Presets returns the built-in calendar definitions.
func Presets() []Preset {
	return []Preset{
		{ID: "gregorian", Description: "Earth's civil calendar with moon, seasons and daylight", JSON: GregorianJSON()},
		{ID: "harptos", Description: "Twelve 30-day months with intercalary festivals and two moons", JSON: HarptosJSON()},
	}
}

// GregorianJSON returns the Gregorian preset definition.
func GregorianJSON() string {
	return `{
  "name": "Gregorian",
  "days": {
    "values": ["Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"],
    "restDays": [0, 6],
    "hoursPerDay": 24,
    "minutesPerHour": 60,
    "secondsPerMinute": 60,
    "daysPerYear": 365
  },
  "months": {"values": [
    {"name": "January", "days": 31},
    {"name": "February", "days": 28, "leapDays": 29},
    {"name": "March", "days": 31},
    {"name": "April", "days": 30},
    {"name": "May", "days": 31},
    {"name": "June", "days": 30},
    {"name": "July", "days": 31},
    {"name": "August", "days": 31},
    {"name": "September", "days": 30},
    {"name": "October", "days": 31},
    {"name": "November", "days": 30},
    {"name": "December", "days": 31}
  ]},
  "years": {"yearZero": 0, "firstWeekday": 6},
  "leapYearConfig": {"rule": "gregorian", "start": 0},
  "seasons": {"values": [
    {"name": "Winter", "dayStart": 334, "dayEnd": 58, "color": "#479dff"},
    {"name": "Spring", "dayStart": 59, "dayEnd": 151, "color": "#46b946"},
    {"name": "Summer", "dayStart": 152, "dayEnd": 243, "color": "#e0c40b"},
    {"name": "Autumn", "dayStart": 244, "dayEnd": 333, "color": "#ff8e47"}
  ]},
  "moons": [{
    "name": "Moon",
    "cycleLength": "29.53059",
    "cycleDayAdjust": "0.5",
    "referenceDate": {"year": 2000, "month": 0, "dayOfMonth": 5},
    "phases": [
      {"name": "New Moon", "icon": "new"},
      {"name": "Waxing Crescent", "icon": "waxing-crescent"},
      {"name": "First Quarter", "icon": "first-quarter"},
      {"name": "Waxing Gibbous", "icon": "waxing-gibbous"},
      {"name": "Full Moon", "icon": "full"},
      {"name": "Waning Gibbous", "icon": "waning-gibbous"},
      {"name": "Last Quarter", "icon": "last-quarter"},
      {"name": "Waning Crescent", "icon": "waning-crescent"}
    ]
  }],
  "eras": [
    {"name": "Before Common Era", "startYear": -100000, "endYear": 0},
    {"name": "Common Era", "startYear": 1}
  ],
  "daylight": {
    "enabled": true,
    "latitude": 47.6,
    "winterSolsticeDay": 354,
    "summerSolsticeDay": 171
  },
  "metadata": {"source": "builtin"}
}`
}

// HarptosJSON returns the fantasy preset definition.
func HarptosJSON() string {
	return `{
  "name": "Calendar of Harptos",
  "days": {
    "values": ["First-day", "Second-day", "Third-day", "Fourth-day", "Fifth-day", "Sixth-day", "Seventh-day", "Eighth-day", "Ninth-day", "Tenth-day"],
    "restDays": [9],
    "hoursPerDay": 24,
    "minutesPerHour": 60,
    "secondsPerMinute": 60
  },
  "months": {"values": [
    {"name": "Hammer", "days": 30},
    {"name": "Alturiak", "days": 30},
    {"name": "Ches", "days": 30},
    {"name": "Tarsakh", "days": 30},
    {"name": "Mirtul", "days": 30},
    {"name": "Kythorn", "days": 30},
    {"name": "Flamerule", "days": 30},
    {"name": "Eleasis", "days": 30},
    {"name": "Eleint", "days": 30},
    {"name": "Marpenoth", "days": 30},
    {"name": "Uktar", "days": 30},
    {"name": "Nightal", "days": 30}
  ]},
  "years": {"yearZero": 0, "firstWeekday": 0},
  "leapYearConfig": {"rule": "simple", "interval": 4, "start": 0},
  "festivals": [
    {"name": "Midwinter", "month": 0, "dayOfMonth": 30, "countsForWeekday": false},
    {"name": "Greengrass", "month": 3, "dayOfMonth": 30, "countsForWeekday": false},
    {"name": "Midsummer", "month": 6, "dayOfMonth": 30, "countsForWeekday": false},
    {"name": "Shieldmeet", "month": 6, "dayOfMonth": 31, "countsForWeekday": false, "leapYearOnly": true},
    {"name": "Highharvestide", "month": 8, "dayOfMonth": 30, "countsForWeekday": false},
    {"name": "Feast of the Moon", "month": 10, "dayOfMonth": 30, "countsForWeekday": false}
  ],
  "seasons": {"values": [
    {"name": "Winter", "dayStart": 335, "dayEnd": 74},
    {"name": "Spring", "dayStart": 75, "dayEnd": 165},
    {"name": "Summer", "dayStart": 166, "dayEnd": 257},
    {"name": "Autumn", "dayStart": 258, "dayEnd": 334}
  ]},
  "moons": [
    {
      "name": "Selune",
      "cycleLength": "30.4375",
      "cycleDayAdjust": "0",
      "referenceDate": {"year": 0, "month": 0, "dayOfMonth": 15},
      "phases": [
        {"name": "New", "icon": "new"},
        {"name": "Waxing", "icon": "waxing-gibbous", "subPhases": ["Waxing Crescent", "First Quarter", "Waxing Gibbous"]},
        {"name": "Full", "icon": "full"},
        {"name": "Waning", "icon": "waning-gibbous", "subPhases": ["Waning Gibbous", "Last Quarter", "Waning Crescent"]}
      ]
    }
  ],
  "eras": [
    {"name": "Dalereckoning", "startYear": 0}
  ],
  "cycles": [
    {
      "name": "Roll of Years",
      "length": 12,
      "offset": 0,
      "basedOn": "year",
      "entries": ["Ring", "Dragon", "Serpent", "Crown", "Sword", "Staff", "Shield", "Banner", "Gauntlet", "Wyvern", "Helm", "Tower"]
    }
  ],
  "daylight": {
    "enabled": true,
    "shortestDay": 8,
    "longestDay": 16,
    "winterSolsticeDay": 350,
    "summerSolsticeDay": 172
  },
  "metadata": {"source": "builtin"}
}`
}
