package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/shlex"

	"classroom-scout/catalog"
	"classroom-scout/config"
	"classroom-scout/exporter"
	"classroom-scout/schedule"
	"classroom-scout/scraper"
)

// runLoop reads commands one line at a time until exit or end of input.
// Every failure is reported and the loop keeps going.
func runLoop(cfg *config.Config, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for {
		printMenu()
		fmt.Print("\nEnter command: ")
		if !scanner.Scan() {
			return
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Println("Error parsing command: Make sure quotes are matched")
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "build":
			runBuild(cfg)
		case "list":
			runList(cfg)
		case "schedule":
			runSchedule(cfg, args)
		case "find":
			runFind(cfg, args)
		case "export":
			runExport(cfg, args)
		case "exit", "quit":
			fmt.Println("Program exit.")
			return
		default:
			fmt.Println("Unknown command.")
		}
	}
}

func printMenu() {
	fmt.Println("\nClassroom Scout Commands:")
	fmt.Println("1. build - Update or build the database")
	fmt.Println("2. list - List all room codes")
	fmt.Println(`3. schedule "ROOM CODE" "MM/DD/YY" - Get schedule for a room`)
	fmt.Println(`4. find "MM/DD/YY" "HH:MM am" "HH:MM pm" - Find all rooms without classes scheduled`)
	fmt.Println(`5. export "ROOM CODE" [FILE] - Write a room schedule as an iCalendar file`)
	fmt.Println("6. exit - Exit program")
}

func runBuild(cfg *config.Config) {
	fmt.Println("Updating or building database...")
	if _, err := scraper.Build(cfg); err != nil {
		fmt.Println("Database build failed:", err)
		return
	}
	fmt.Println("Database updated or built in " + cfg.DatabaseFile)
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, bool) {
	cat, err := catalog.Load(cfg.DatabaseFile)
	if err != nil {
		fmt.Println("Error loading database:", err)
		fmt.Println("Run 'build' first to create it.")
		return nil, false
	}
	return cat, true
}

func runList(cfg *config.Config) {
	cat, ok := loadCatalog(cfg)
	if !ok {
		return
	}
	fmt.Println("All room codes in database:")
	rooms := schedule.RoomList(cat)
	sort.Strings(rooms)
	for _, line := range schedule.FormatColumns(rooms) {
		fmt.Println(line)
	}
}

func runSchedule(cfg *config.Config, args []string) {
	if len(args) != 3 {
		fmt.Println(`Usage: schedule "ROOM CODE" "MM/DD/YY"`)
		fmt.Println(`Example: schedule "ENGTR 0100" "1/8/25"`)
		return
	}
	room, dateArg := args[1], args[2]

	cat, ok := loadCatalog(cfg)
	if !ok {
		return
	}
	date, err := schedule.ResolveDate(dateArg)
	if err != nil {
		fmt.Println(`Error parsing date: use "MM/DD/YY" or "today"`)
		return
	}

	lines, err := schedule.RoomSchedule(cat, room, date)
	if errors.Is(err, schedule.ErrUnknownRoom) {
		fmt.Println("Room code not recognized.")
		return
	}
	fmt.Println("Schedule for " + room + " on " + dateArg + ":")
	if len(lines) == 0 {
		fmt.Println("No classes scheduled.")
		return
	}
	for _, line := range lines {
		fmt.Println(line)
	}
}

func runFind(cfg *config.Config, args []string) {
	if len(args) != 4 {
		fmt.Println(`Usage: find "MM/DD/YY" "HH:MM AM" "HH:MM AM"`)
		fmt.Println(`Example: find "1/8/25" "10:00 AM" "11:30 AM"`)
		return
	}
	dateArg, startArg, endArg := args[1], args[2], args[3]

	cat, ok := loadCatalog(cfg)
	if !ok {
		return
	}
	date, err := schedule.ResolveDate(dateArg)
	if err != nil {
		fmt.Println(`Error parsing date: use "MM/DD/YY" or "today"`)
		return
	}
	start, err := schedule.ParseTime(startArg)
	if err != nil {
		fmt.Println(`Error parsing start time: use "HH:MM am" or "HH:MM pm"`)
		return
	}
	end, err := schedule.ParseTime(endArg)
	if err != nil {
		fmt.Println(`Error parsing end time: use "HH:MM am" or "HH:MM pm"`)
		return
	}

	rooms := schedule.FindRooms(cat, date, start, end)
	if len(rooms) == 0 {
		fmt.Println("No rooms found.")
		return
	}
	fmt.Println("Rooms without classes scheduled on " + dateArg + " from " + startArg + " to " + endArg + ":")
	for _, line := range schedule.FormatColumns(rooms) {
		fmt.Println(line)
	}
}

func runExport(cfg *config.Config, args []string) {
	if len(args) != 2 && len(args) != 3 {
		fmt.Println(`Usage: export "ROOM CODE" [FILE]`)
		fmt.Println(`Example: export "ENGTR 0100" engtr-0100.ics`)
		return
	}
	room := args[1]
	path := defaultICSName(room)
	if len(args) == 3 {
		path = args[2]
	}

	cat, ok := loadCatalog(cfg)
	if !ok {
		return
	}
	err := exporter.WriteRoomICS(cat, room, path)
	if errors.Is(err, schedule.ErrUnknownRoom) {
		fmt.Println("Room code not recognized.")
		return
	}
	if err != nil {
		fmt.Println("Calendar export failed:", err)
		return
	}
	fmt.Println("Calendar written to " + path)
}

// defaultICSName derives a filesystem-friendly file name from a room code.
func defaultICSName(room string) string {
	name := strings.ToLower(room)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, name)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "room"
	}
	return name + ".ics"
}
