// Package pdfpng converts the pages of a PDF file into PNG images.
//
// A [Converter] takes one selected file at a time, renders every page at
// twice the PDF's native resolution and keeps the results as [Artifact]
// values until the session is reset:
//
//	conv := pdfpng.NewConverter(mupdf.New(),
//	    pdfpng.WithArchiver(pdfpng.NewZipArchiver()),
//	)
//	defer conv.Close()
//
//	src, err := pdfpng.OpenSourceFile("report.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := conv.Select(ctx, src); err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, a := range conv.Artifacts() {
//	    fmt.Println(a.Name, a.Size) // report_page_01.png 182.4 KB
//	}
//	err = conv.DownloadAll(ctx)     // report_png_images.zip
//
// Rendering is pluggable through [Renderer]. Two backends ship with the
// module: package mupdf rasterizes in process, package pdfjs drives pdf.js
// in a headless browser.
//
// The Converter reports to a [Display] as it moves between the upload,
// processing and results phases. Failures are shown as one user-facing
// message and returned as an [*Error] whose [Kind] can be inspected:
//
//	var e *pdfpng.Error
//	if errors.As(err, &e) && e.Kind == pdfpng.PasswordProtected {
//	    // ...
//	}
//
// Page images are handed out through transient [Ref] handles minted by a
// [RefStore]. Every handle is released exactly once, on [Converter.Reset],
// on the next selection or on [Converter.Close].
package pdfpng
