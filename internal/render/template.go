package render

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en" class="bg-gray-100">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="robots" content="noindex, nofollow">
    <meta name="googlebot" content="noindex, nofollow">
    <title>Store Catalogs</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="min-h-screen p-4 md:p-8">
    <div class="max-w-7xl mx-auto space-y-8">
        <div class="bg-white rounded-lg shadow overflow-hidden">
            <div class="overflow-x-auto">
                <table class="min-w-full divide-y divide-gray-200">
                    <thead class="bg-gray-50">
                        <tr>
                            <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Store</th>
                            <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Valid Period</th>
                            <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Link</th>
                        </tr>
                    </thead>
                    <tbody class="bg-white divide-y divide-gray-200">
{{- range .Rows}}
                        <tr class="{{if .IsActive}}hover:bg-green-50{{else}}hover:bg-gray-50{{end}}">
                            <td class="px-6 py-4 whitespace-nowrap">
                                <div class="flex items-center">
                                    <div class="flex-shrink-0 h-8 w-8">
                                        <img class="h-8 w-8 object-contain" src="{{.Logo}}" alt="{{.Store}}">
                                    </div>
                                    <div class="ml-4">
                                        <div class="text-sm font-medium text-gray-900">{{.Store}}</div>
                                    </div>
                                </div>
                            </td>
                            <td class="px-6 py-4 whitespace-nowrap">
                                <div class="text-sm text-gray-900">{{.DateRange}}</div>
                            </td>
                            <td class="px-6 py-4 whitespace-nowrap text-sm">
                                <a href="{{.URL}}" target="_blank" rel="noopener"{{with .Title}} title="{{.}}"{{end}}
                                   class="inline-flex items-center px-3 py-2 border border-transparent text-sm leading-4 font-medium rounded-md text-white {{if .IsActive}}bg-green-600 hover:bg-green-700 focus:ring-green-500{{else}}bg-blue-600 hover:bg-blue-700 focus:ring-blue-500{{end}} focus:outline-none focus:ring-2 focus:ring-offset-2">
                                    View
                                </a>
                            </td>
                        </tr>
{{- end}}
                    </tbody>
                </table>
            </div>
        </div>

        <div class="text-center text-sm text-gray-500">
            Last updated: {{.LastUpdated}}
        </div>
    </div>
</body>
</html>
`
