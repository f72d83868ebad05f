package ics

import "strings"

// academicFeed is a small feed with an all-day span, a weekly lecture with
// one cancelled and one moved instance, and a VEVENT without UID.
var academicFeed = strings.ReplaceAll(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Campus//Academic//EN
BEGIN:VEVENT
UID:exam-week@uni.example
DTSTAMP:20250101T000000Z
DTSTART;VALUE=DATE:20250428
DTEND;VALUE=DATE:20250503
SUMMARY:Exam week
DESCRIPTION:All faculties
END:VEVENT
BEGIN:VEVENT
UID:lecture@uni.example
DTSTAMP:20250101T000000Z
DTSTART:20250505T090000Z
DTEND:20250505T103000Z
RRULE:FREQ=WEEKLY;COUNT=4
EXDATE:20250512T090000Z
SUMMARY:Lecture
LOCATION:Hall B
END:VEVENT
BEGIN:VEVENT
UID:lecture@uni.example
DTSTAMP:20250101T000000Z
RECURRENCE-ID:20250519T090000Z
DTSTART:20250520T090000Z
DTEND:20250520T103000Z
SUMMARY:Lecture (moved)
END:VEVENT
BEGIN:VEVENT
DTSTAMP:20250101T000000Z
DTSTART:20250501T090000Z
SUMMARY:No UID
END:VEVENT
END:VCALENDAR
`, "\n", "\r\n")

// rescheduledFeed moves the last lecture of May into June twice; the
// higher SEQUENCE is listed first.
var rescheduledFeed = strings.ReplaceAll(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Campus//Academic//EN
BEGIN:VEVENT
UID:seminar@uni.example
DTSTAMP:20250101T000000Z
DTSTART:20250505T090000Z
DTEND:20250505T103000Z
RRULE:FREQ=WEEKLY;COUNT=4
SUMMARY:Seminar
END:VEVENT
BEGIN:VEVENT
UID:seminar@uni.example
DTSTAMP:20250102T000000Z
SEQUENCE:2
RECURRENCE-ID:20250526T090000Z
DTSTART:20250603T090000Z
DTEND:20250603T103000Z
SUMMARY:Seminar (June 3)
END:VEVENT
BEGIN:VEVENT
UID:seminar@uni.example
DTSTAMP:20250101T000000Z
SEQUENCE:1
RECURRENCE-ID:20250526T090000Z
DTSTART:20250602T090000Z
DTEND:20250602T103000Z
SUMMARY:Seminar (June 2)
END:VEVENT
BEGIN:VEVENT
UID:seminar@uni.example
DTSTAMP:20250101T000000Z
RECURRENCE-ID:20250527T090000Z
DTSTART:20250604T090000Z
DTEND:20250604T103000Z
SUMMARY:Not an instance
END:VEVENT
END:VCALENDAR
`, "\n", "\r\n")
