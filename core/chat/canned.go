package chat

import "strings"

var cannedReplies = []struct {
	keywords []string
	reply    string
}{
	{
		keywords: []string{"timetable", "schedule"},
		reply:    "Your timetable for today includes:\n- 9:00 AM - Mathematics\n- 10:30 AM - Physics\n- 12:00 PM - English\n- 2:00 PM - Chemistry",
	},
	{
		keywords: []string{"exam", "test"},
		reply:    "Your next exam is Mathematics on November 15, 2025. It will cover topics from chapters 1-5. The exam duration is 2 hours.",
	},
	{
		keywords: []string{"attendance"},
		reply:    "Your current attendance is 92%. You have attended 138 out of 150 classes. Keep up the good work!",
	},
	{
		keywords: []string{"grade", "marks", "result"},
		reply:    "Your recent grades:\n- Mathematics: A (85%)\n- Physics: B+ (78%)\n- Chemistry: A- (82%)\n- English: A (88%)\nOverall GPA: 3.6",
	},
	{
		keywords: []string{"fee", "payment"},
		reply:    "Your fee status: All dues are cleared. Next payment of ₵500 is due on December 1, 2025.",
	},
	{
		keywords: []string{"help"},
		reply:    "I can help you with:\n- View your timetable\n- Check exam schedules\n- Review attendance\n- Check grades and results\n- Fee payment status\n- Library books\n- Announcements\n\nJust ask me anything!",
	},
}

const defaultReply = "I'm here to help! You can ask me about your timetable, exams, attendance, grades, fees, or any other school-related information."

// CannedReply returns the rule-based reply for `query`. The first matching keyword group wins.
func CannedReply(query string) string {
	q := strings.ToLower(query)
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(q, kw) {
				return c.reply
			}
		}
	}
	return defaultReply
}
