package admin

import texttmpl "text/template"

var assignmentTmpl = texttmpl.Must(texttmpl.New("assignment").Parse(`Hi {{.Name}},

You have been assigned a task on the school dashboard:

{{.Task.Title}}
{{.Task.Summary}}

Open it at {{.Task.Link}}
`))
