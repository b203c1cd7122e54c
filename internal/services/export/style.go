package export

// documentCSS covers exactly the classes the layout helpers emit, so the
// exported file needs no stylesheet from the network.
const documentCSS = `
*{box-sizing:border-box}
body{margin:0;font-family:-apple-system,"Segoe UI",Helvetica,Arial,sans-serif;color:#111827;background:#fff;line-height:1.5}
h1,h2,h3{margin:0 0 .5rem}
.page{padding:2.5rem 3rem;page-break-after:always}
.cover{min-height:90vh;display:flex;flex-direction:column;justify-content:center}
.cover h1{font-size:2.75rem}
.cover .tagline{font-size:1.25rem;color:#4B5563}
.meta{color:#6B7280;font-size:.875rem}
.grid{display:grid}
.grid-cols-1{grid-template-columns:repeat(1,minmax(0,1fr))}
.gap-2{gap:.5rem}.gap-4{gap:1rem}.gap-6{gap:1.5rem}.gap-8{gap:2rem}
.space-y-2>*+*{margin-top:.5rem}.space-y-4>*+*{margin-top:1rem}.space-y-6>*+*{margin-top:1.5rem}.space-y-8>*+*{margin-top:2rem}
.rounded-lg{border-radius:.5rem}
.border{border:1px solid #E5E7EB}
.border-2{border-width:2px;border-style:solid}
.border-blue-500{border-color:#3B82F6}
.bg-white{background:#fff}.bg-slate-50{background:#F8FAFC}.bg-blue-50{background:#EFF6FF}
.p-4{padding:1rem}.p-6{padding:1.5rem}
.shadow-sm{box-shadow:0 1px 2px rgba(0,0,0,.05)}
.text-center{text-align:center}
.metric .value{font-size:1.75rem;font-weight:700}
.metric .label{color:#6B7280;font-size:.875rem}
.change.up{color:#10B981}.change.down{color:#EF4444}
table{width:100%;border-collapse:collapse}
th,td{padding:.5rem .75rem;border-bottom:1px solid #E5E7EB;text-align:right}
th:first-child,td:first-child{text-align:left}
figure{margin:0}
figure svg{max-width:100%;height:auto}
.placeholder{display:flex;align-items:center;justify-content:center;height:200px;color:#9CA3AF;background:#F3F4F6;border-radius:.5rem}
@media (min-width:768px){
.md\:grid-cols-2{grid-template-columns:repeat(2,minmax(0,1fr))}
.md\:grid-cols-3{grid-template-columns:repeat(3,minmax(0,1fr))}
.md\:grid-cols-4{grid-template-columns:repeat(4,minmax(0,1fr))}
.md\:grid-cols-5{grid-template-columns:repeat(5,minmax(0,1fr))}
.md\:grid-cols-6{grid-template-columns:repeat(6,minmax(0,1fr))}
}
@media print{.page{padding:1.5rem}.no-print{display:none}}
`
