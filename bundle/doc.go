// Package bundle splits a packaged script bundle back into per-file module
// sources.
//
// A bundle is one concatenated blob implementing a private module system: a
// sequence of registration call sites, each naming a module path, a
// dependency list, and a factory body, wired together by a small bootstrap
// runtime:
//
//	define("pages/index.js", ["common/util.js"], function (require, module, exports) {
//	    ...
//	});
//
// The scanner does not parse the language. It recognizes the registration
// shape and treats factory bodies as opaque spans, located by brace-depth
// counting that suppresses braces inside strings, template literals,
// comments, and regular-expression literals. Everything between call sites
// is loader boilerplate and is discarded; a blob with no recognizable call
// site at all is emitted verbatim as a single fallback file instead, so an
// unexpected bundle shape degrades loudly rather than losing data.
//
// A registration slot may hold a length-prefixed compiled payload instead of
// a function literal; such modules are preserved byte for byte, never
// decompiled.
package bundle
